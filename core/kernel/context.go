package kernel

// Context is handed to a task for the duration of one Step call.
type Context struct {
	k      *Kernel
	taskID TaskID

	blocked bool
	blockOn Endpoint
}

func (c *Context) TaskID() TaskID { return c.taskID }

// TryRecv pops the oldest message on the endpoint, if any. epCap needs
// RightRecv.
func (c *Context) TryRecv(epCap Capability) (Message, bool) {
	if c.k == nil || !epCap.can(RightRecv) {
		return Message{}, false
	}
	return c.k.recv(epCap.ep)
}

// BlockOn parks the task after this Step until a message lands on the
// endpoint. If mail is already queued the task keeps running.
func (c *Context) BlockOn(epCap Capability) {
	if !epCap.can(RightRecv) {
		return
	}
	c.blocked = true
	c.blockOn = epCap.ep
}

// Send posts to toCap with fromCap's endpoint as the return address.
func (c *Context) Send(fromCap, toCap Capability, kind uint16, payload []byte) SendResult {
	switch {
	case !fromCap.Valid():
		return SendErrInvalidFromCap
	case !fromCap.can(RightSend):
		return SendErrFromNoSendRight
	}
	if res := checkTo(toCap); res != SendOK {
		return res
	}
	return c.k.send(fromCap.ep, toCap.ep, kind, payload)
}

// SendTo posts to toCap without a return address.
func (c *Context) SendTo(toCap Capability, kind uint16, payload []byte) SendResult {
	if c.k == nil {
		return SendErrNoEndpoint
	}
	return c.k.SendTo(toCap, kind, payload)
}
