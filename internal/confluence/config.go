package confluence

import (
	stderrors "errors"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"

	"github.com/olgasafonova/confluence-upload/internal/errors"
)

// Environment variables read by the uploader
const (
	EnvEmail    = "CONFLUENCE_EMAIL"
	EnvAPIToken = "CONFLUENCE_API_TOKEN"
	EnvInstance = "CONFLUENCE_INSTANCE"
	EnvSpace    = "CONFLUENCE_SPACE"
)

// Config holds Confluence connection settings
type Config struct {
	// Instance is the Atlassian host (e.g., nebari-ai.atlassian.net)
	Instance string `json:"instance"`

	// SpaceKey scopes every lookup and create (e.g., PM)
	SpaceKey string `json:"space"`

	// Email and APIToken are sent as HTTP basic auth
	Email    string `json:"email"`
	APIToken string `json:"api_token"`

	// DryRun replaces every mutating call with a logged simulation
	DryRun bool `json:"dry_run"`

	// Timeout for API requests
	Timeout time.Duration `json:"timeout"`

	// BaseURL overrides https://{Instance}/wiki/rest/api when set
	BaseURL string `json:"base_url"`
}

// LoadDotEnv loads a .env file into the environment if it exists.
// Variables already set in the environment win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// LoadCredentials reads the account email and API token from the environment.
// Missing values produce a ConfigError with remediation steps.
func LoadCredentials() (email, token string, err error) {
	email = strings.TrimSpace(os.Getenv(EnvEmail))
	token = strings.TrimSpace(os.Getenv(EnvAPIToken))
	if email == "" || token == "" {
		return "", "", errors.NewConfigError(
			"Set "+EnvEmail+" and "+EnvAPIToken+" environment variables.",
			"export "+EnvEmail+"='you@company.com'",
			"export "+EnvAPIToken+"='ATATT3x...'",
			"Generate token: https://id.atlassian.com/manage-profile/security/api-tokens",
		)
	}
	return email, token, nil
}

// APIBase returns the REST API root for this configuration
func (c *Config) APIBase() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return "https://" + c.Instance + "/wiki/rest/api"
}

// Validate checks required fields
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Instance, validation.When(c.BaseURL == "", validation.Required, is.Host)),
		validation.Field(&c.SpaceKey, validation.Required),
		validation.Field(&c.Email, validation.Required),
		validation.Field(&c.APIToken, validation.Required),
		validation.Field(&c.BaseURL, is.URL),
	)
	return ToValidationError(err)
}

// ToValidationError converts ozzo validation errors into a ValidationError for
// the first failing field (alphabetical), so callers can use errors.IsValidation.
func ToValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.NewValidationError("", "", err.Error())
	}

	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	first := fields[0]
	return errors.NewValidationError(first, "", fieldErrs[first].Error())
}
