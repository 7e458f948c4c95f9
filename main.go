package main

import "github.com/longkey1/chatpanel/cmd"

func main() {
	cmd.Execute()
}
