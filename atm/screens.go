// File: atm/screens.go
package atm

import "fmt"

const withdrawalScreen = "****************************************\n" +
	"*                                      *\n" +
	"*                                      *\n" +
	"*         WITHDRAWAL!!!.               *\n" +
	"*                                      *\n" +
	"*                                      *\n" +
	"****************************************\n" +
	"PLEASE ENTER AMOUNT:"

const depositScreen = "****************************************\n" +
	"*                                      *\n" +
	"*                                      *\n" +
	"*         DEPOSIT!!!.                  *\n" +
	"*                                      *\n" +
	"*                                      *\n" +
	"****************************************\n" +
	"PLEASE ENTER AMOUNT:"

// makeWelcomeScreen builds the welcome screen, splicing an advertisement
// blurb in when one is showing. blurb must be empty or full box lines ending
// in newlines.
func makeWelcomeScreen(blurb string) ConsoleOutputMessage {
	welcomeScreen := "****************************************\n" +
		"*                                      *\n" +
		"*                                      *\n" +
		"*         WELCOME TO BASIC BANK.       *\n"

	welcomeScreen += blurb

	welcomeScreen += "*                                      *\n" +
		"*         PLEASE ENTER YOU ACC.        *\n" +
		"*                                      *\n" +
		"*                                      *\n" +
		"*                                      *\n" +
		"****************************************\n"

	return ConsoleOutputMessage{Text: welcomeScreen, Clear: true}
}

// makeMainMenuScreen builds the transaction menu for a signed-in customer.
func makeMainMenuScreen(name string) ConsoleOutputMessage {
	mainMenuScreen := "****************************************\n" +
		"*                                      *\n" +
		"*                                      *\n" +
		fmt.Sprintf("*         Hi %s,         *\n", name) +
		"*         WELCOME TO BASIC BANK.       *\n" +
		"*                                      *\n" +
		"*         [w] WITHDRAWAL               *\n" +
		"*         [d] DEPOSIT                  *\n" +
		"*                                      *\n" +
		"*                                      *\n" +
		"*                                      *\n" +
		"****************************************\n"

	return ConsoleOutputMessage{Text: mainMenuScreen, Clear: true}
}
