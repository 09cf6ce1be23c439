package main

import "tamilvalam_backend/cmd"

func main() {
	cmd.Execute()
}
