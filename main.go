package main

import "github.com/modelscout/modelscout/cmd"

func main() {
	cmd.Execute()
}
