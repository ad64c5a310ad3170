package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lguibr/basicbank/atm"
	"github.com/lguibr/basicbank/bank"
	"github.com/lguibr/basicbank/pubsub"
	"github.com/lguibr/basicbank/server"
	"github.com/lguibr/basicbank/utils"
	"github.com/lguibr/bollywood"
	"golang.org/x/net/websocket"
)

// advertBlurbs rotate through the welcome screens of idle ATMs.
var advertBlurbs = []string{
	"*         EAT AT JOE'S DINER!          *\n",
	"*         BASIC BANK LOANS: 0.1%       *\n",
	"*         TRY OUR NEW SAVERS CLUB      *\n",
}

func main() {
	cfg := utils.DefaultConfig()
	engine := bollywood.NewEngine()

	mediatorPID := engine.Spawn(bollywood.NewProps(pubsub.NewMediatorProducer()))
	bankPID := engine.Spawn(bollywood.NewProps(bank.NewBankActorProducer(engine, cfg, mediatorPID)))

	seedCustomers(engine, bankPID, cfg)

	go publishAdverts(engine, mediatorPID, cfg)
	go waitForShutdown(engine, cfg)

	gateway := server.NewServer(engine, cfg, bankPID, mediatorPID)

	http.HandleFunc("/health", gateway.HandleHealth())
	http.HandleFunc("/customers", gateway.HandleCustomers())
	http.Handle("/atm", websocket.Handler(gateway.HandleATM()))

	fmt.Printf("Basic Bank listening on %s\n", cfg.ListenAddr)
	panic(http.ListenAndServe(cfg.ListenAddr, nil))
}

// seedCustomers registers a few demo customers so an ATM session has
// something to find.
func seedCustomers(engine *bollywood.Engine, bankPID *bollywood.PID, cfg utils.Config) {
	customers := []bank.Customer{
		{CustomerNumber: 7, CustomerName: "Buck Rogers"},
		{CustomerNumber: 13, CustomerName: "Wilma Deering"},
		{CustomerNumber: 42, CustomerName: "Doctor Huer"},
	}
	for _, customer := range customers {
		_, err := engine.Ask(bankPID, bank.CreateCustomerRequest{Customer: customer}, cfg.LookupDelay+time.Second)
		if err != nil {
			fmt.Printf("Failed to seed customer %d: %v\n", customer.CustomerNumber, err)
			continue
		}
		fmt.Printf("Seeded customer %d (%s)\n", customer.CustomerNumber, customer.CustomerName)
	}
}

// publishAdverts pushes a rotating blurb on the advert topic. Idle ATMs
// splice it into their welcome screens; busy ones drop it.
func publishAdverts(engine *bollywood.Engine, mediatorPID *bollywood.PID, cfg utils.Config) {
	ticker := time.NewTicker(cfg.AdvertPeriod)
	defer ticker.Stop()

	for i := 0; ; i++ {
		<-ticker.C
		blurb := advertBlurbs[i%len(advertBlurbs)]
		engine.Send(mediatorPID, pubsub.Publish{
			Topic:   utils.TopicAdverts,
			Message: atm.AdvertisementMessage{Blurb: blurb},
		}, nil)
	}
}

// waitForShutdown stops the actor system on SIGINT/SIGTERM.
func waitForShutdown(engine *bollywood.Engine, cfg utils.Config) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	<-signals

	fmt.Println("Shutdown signal received.")
	engine.Shutdown(cfg.ShutdownTimeout)
	os.Exit(0)
}
