package main

import "github.com/vibast-solutions/ms-go-omise/cmd"

func main() {
	cmd.Execute()
}
