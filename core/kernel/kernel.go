// Package kernel is a cooperative, single-threaded task scheduler with
// capability-guarded message endpoints.
//
// All calls happen on the frame thread. Producers outside a task (the peer
// registry, startup code) post through Kernel.SendTo; tasks drain their
// endpoints from Task.Step.
package kernel

const (
	maxTasks     = 32
	maxEndpoints = 32
	mailboxSlots = 16
)

type TaskID uint8

// Rights say what a capability may do with its endpoint.
type Rights uint8

const (
	RightSend Rights = 1 << iota
	RightRecv
)

// Endpoint identifies a mailbox.
type Endpoint uint8

// Capability is an unforgeable handle on an endpoint: it can only be minted by
// NewEndpoint and narrowed by Restrict.
type Capability struct {
	ep     Endpoint
	rights Rights
}

func (c Capability) Valid() bool { return c.rights != 0 }

func (c Capability) can(r Rights) bool { return c.rights&r == r }

// Restrict returns c limited to rights. Dropping every right yields the zero
// (invalid) capability.
func (c Capability) Restrict(rights Rights) Capability {
	r := c.rights & rights
	if r == 0 {
		return Capability{}
	}
	return Capability{ep: c.ep, rights: r}
}

// MaxMessageBytes bounds a message payload. Log lines are cut to this length.
const MaxMessageBytes = 128

// Message is a fixed-size envelope copied into the receiver's mailbox.
type Message struct {
	From Endpoint
	To   Endpoint
	Kind uint16
	Len  uint16
	Data [MaxMessageBytes]byte
}

// Payload returns the valid portion of Data.
func (m *Message) Payload() []byte {
	return m.Data[:min(int(m.Len), MaxMessageBytes)]
}

// SendResult describes the outcome of a send attempt.
type SendResult uint8

const (
	SendOK SendResult = iota
	SendErrInvalidFromCap
	SendErrInvalidToCap
	SendErrFromNoSendRight
	SendErrToNoSendRight
	SendErrNoEndpoint
	SendErrPayloadTooLarge
	SendErrQueueFull
)

var sendResultNames = [...]string{
	SendOK:                 "ok",
	SendErrInvalidFromCap:  "invalid from capability",
	SendErrInvalidToCap:    "invalid to capability",
	SendErrFromNoSendRight: "from capability has no send right",
	SendErrToNoSendRight:   "to capability has no send right",
	SendErrNoEndpoint:      "no such endpoint",
	SendErrPayloadTooLarge: "payload too large",
	SendErrQueueFull:       "queue full",
}

func (r SendResult) String() string {
	if int(r) < len(sendResultNames) {
		return sendResultNames[r]
	}
	return "unknown"
}

// Task is a cooperative unit of execution. Step must not block.
type Task interface {
	Step(*Context)
}

// Sender posts to an endpoint without naming a source endpoint. *Kernel and
// *Context both implement it.
type Sender interface {
	SendTo(to Capability, kind uint16, payload []byte) SendResult
}

type endpoint struct {
	q       mailbox
	waiters []TaskID
}

type taskSlot struct {
	task   Task
	parked bool
	dead   bool
}

// Kernel owns the task table and the endpoint mailboxes.
type Kernel struct {
	endpoints []endpoint
	tasks     []taskSlot
	steps     uint64
}

func New() *Kernel {
	return &Kernel{}
}

// NewEndpoint allocates an endpoint. It returns the zero capability once
// maxEndpoints are in use.
func (k *Kernel) NewEndpoint(rights Rights) Capability {
	if len(k.endpoints) >= maxEndpoints || rights == 0 {
		return Capability{}
	}
	k.endpoints = append(k.endpoints, endpoint{})
	return Capability{ep: Endpoint(len(k.endpoints) - 1), rights: rights}
}

// AddTask registers t. The second result is false when the task table is
// full.
func (k *Kernel) AddTask(t Task) (TaskID, bool) {
	if t == nil || len(k.tasks) >= maxTasks {
		return 0, false
	}
	k.tasks = append(k.tasks, taskSlot{task: t})
	return TaskID(len(k.tasks) - 1), true
}

// Step runs every runnable task once, in registration order. A task woken by
// a send earlier in the pass still runs in this pass if it comes later.
func (k *Kernel) Step() {
	k.steps++
	for i := range k.tasks {
		slot := &k.tasks[i]
		if slot.dead || slot.parked {
			continue
		}
		ctx := &Context{k: k, taskID: TaskID(i)}
		if !k.run(slot.task, ctx) {
			slot.dead = true
			continue
		}
		if ctx.blocked {
			k.park(TaskID(i), ctx.blockOn)
		}
	}
}

// Steps returns the number of completed Step calls.
func (k *Kernel) Steps() uint64 { return k.steps }

func (k *Kernel) run(t Task, ctx *Context) (ok bool) {
	defer func() {
		if v := recover(); v != nil {
			triggerPanic(PanicInfo{TaskID: ctx.taskID, Value: v})
			ok = false
		}
	}()
	t.Step(ctx)
	return true
}

// park puts id to sleep on ep unless mail is already waiting there.
func (k *Kernel) park(id TaskID, ep Endpoint) {
	if int(ep) >= len(k.endpoints) {
		return
	}
	e := &k.endpoints[ep]
	if e.q.len() > 0 {
		return
	}
	k.tasks[id].parked = true
	e.waiters = append(e.waiters, id)
}

// SendTo posts a message from outside any task. Message.From is 0.
func (k *Kernel) SendTo(toCap Capability, kind uint16, payload []byte) SendResult {
	if res := checkTo(toCap); res != SendOK {
		return res
	}
	return k.send(0, toCap.ep, kind, payload)
}

func checkTo(c Capability) SendResult {
	switch {
	case !c.Valid():
		return SendErrInvalidToCap
	case !c.can(RightSend):
		return SendErrToNoSendRight
	}
	return SendOK
}

func (k *Kernel) send(from, to Endpoint, kind uint16, payload []byte) SendResult {
	if int(to) >= len(k.endpoints) {
		return SendErrNoEndpoint
	}
	if len(payload) > MaxMessageBytes {
		return SendErrPayloadTooLarge
	}

	msg := Message{From: from, To: to, Kind: kind, Len: uint16(len(payload))}
	copy(msg.Data[:], payload)

	e := &k.endpoints[to]
	if !e.q.push(msg) {
		return SendErrQueueFull
	}
	for _, id := range e.waiters {
		k.tasks[id].parked = false
	}
	e.waiters = e.waiters[:0]
	return SendOK
}

func (k *Kernel) recv(from Endpoint) (Message, bool) {
	if int(from) >= len(k.endpoints) {
		return Message{}, false
	}
	return k.endpoints[from].q.pop()
}
