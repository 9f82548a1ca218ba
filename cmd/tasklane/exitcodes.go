package main

// Exit codes for the CLI
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitInvalidGraph  = 2
	ExitGraphRepaired = 3
)
