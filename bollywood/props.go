package bollywood

// Producer is a function that creates a new instance of an Actor.
type Producer func() Actor

// Props is a configuration object used to create actors.
type Props struct {
	producer   Producer
	supervisor *PID
	// We could add mailbox configuration here later
}

// NewProps creates a new Props object with the given actor producer.
func NewProps(producer Producer) *Props {
	if producer == nil {
		panic("bollywood: producer cannot be nil")
	}
	return &Props{
		producer: producer,
	}
}

// WithSupervisor configures a supervisor PID for the actor. When the actor's
// Receive panics, the panic is recovered, the offending message is dropped,
// and a Failure message is sent to the supervisor. The actor itself keeps
// running with its last valid state; the supervisor decides whether to stop it.
func (p *Props) WithSupervisor(supervisor *PID) *Props {
	p.supervisor = supervisor
	return p
}

// Produce creates a new actor instance using the configured producer.
func (p *Props) Produce() Actor {
	return p.producer()
}
