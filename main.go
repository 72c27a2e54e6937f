package main

import "github.com/gaurav-prasanna/wxrpipe/cmd"

func main() {
	cmd.Execute()
}
