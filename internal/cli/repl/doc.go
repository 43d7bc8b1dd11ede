// Package repl provides the interactive mode of respkv-cli.
//
// Each input line is split into arguments, sent to the server as one
// command and the reply is printed. Double and single quotes group words
// into one argument; inside double quotes \n, \r, \t, \" and \\ are
// recognised. "exit" or "quit" (or end of input) leaves the loop.
package repl
