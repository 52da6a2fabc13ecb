package main

import "github.com/kebairia/catbackup/cmd"

func main() {
	cmd.Execute()
}
