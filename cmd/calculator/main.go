// Command calculator evaluates, simplifies, and plots calculator
// expressions, either from the command line or in an interactive session.
package main

func main() {
	Execute()
}
