// File: atm/messages.go
package atm

import "github.com/lguibr/bollywood"

// --- Console Messages (gateway <-> ConsoleActor <-> AtmActor) ---

// ConsoleInputMessage carries one raw line of user input. The ATM parses it
// locally (numeric vs. command).
type ConsoleInputMessage struct {
	Input string
}

// ConsoleOutputMessage asks the console to render text, optionally clearing
// the screen first. Output is fire-and-forget.
type ConsoleOutputMessage struct {
	Text  string
	Clear bool
}

// --- ATM Messages ---

// BankReadyMessage tells the ATM which bank front to talk to. Until it
// arrives the ATM ignores user input.
type BankReadyMessage struct {
	Bank *bollywood.PID
}

// AdvertisementMessage is broadcast on the advert topic. An ATM splices the
// blurb into its welcome screen, but only while waiting for a customer
// number; everywhere else the ad is dropped.
type AdvertisementMessage struct {
	Blurb string
}

// receiptTimedOutMessage fires when no receipt arrived in time. The timer is
// one-shot and never cancelled: a late receipt after it fires, or the timer
// firing after a receipt landed, are both ignored by the state check.
type receiptTimedOutMessage struct{}
