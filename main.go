package main

import "github.com/olgasafonova/confluence-upload/cmd"

func main() {
	cmd.Execute()
}
