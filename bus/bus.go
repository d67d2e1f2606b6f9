// bus.go
package bus

import (
	"context"
	"sync"
	"sync/atomic"
)

// -----------------------------------------------------------------------------
// Tokens + Topics
// -----------------------------------------------------------------------------

// Token is a single element in a topic path. Tokens must be comparable
// values (strings, integers, bools); T validates this at construction.
type Token = any

// Topic is a sequence of tokens, e.g. Topic{"press", "control", "press"}.
type Topic []Token

// Wildcard tokens, usable in subscription topics only.
const (
	WildcardOne = "+" // matches exactly one token at its level
	WildcardAll = "#" // matches the rest of the topic, including nothing
)

// T builds a Topic and panics on tokens that cannot be used as trie keys.
// Catching a bad token here beats a map-assignment panic deep in Publish.
func T(tokens ...Token) Topic {
	for _, tok := range tokens {
		if !validToken(tok) {
			panic("bus: topic token must be a comparable primitive")
		}
	}
	return Topic(tokens)
}

func validToken(tok Token) bool {
	switch tok.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func (t Topic) Len() int       { return len(t) }
func (t Topic) At(i int) Token { return t[i] }

// Append returns a new Topic with the extra tokens added; t is not modified.
func (t Topic) Append(tokens ...Token) Topic {
	out := make(Topic, 0, len(t)+len(tokens))
	out = append(out, t...)
	return append(out, tokens...)
}

func (t Topic) Equal(o Topic) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

// -----------------------------------------------------------------------------
// Message
// -----------------------------------------------------------------------------

type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
	ReplyTo  Topic // set by Request/RequestWait on the requesting side
}

// CanReply reports whether the sender asked for a reply.
func (m *Message) CanReply() bool { return m != nil && len(m.ReplyTo) > 0 }

// -----------------------------------------------------------------------------
// Subscription
// -----------------------------------------------------------------------------

type Subscription struct {
	topic Topic
	ch    chan *Message
	conn  *Connection // owning connection
}

func (s *Subscription) Topic() Topic             { return s.topic }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.conn.Unsubscribe(s) }

// -----------------------------------------------------------------------------
// Trie node
// -----------------------------------------------------------------------------

type node struct {
	children map[Token]*node
	subs     []*Subscription
	retained *Message // stored at literal topics only
}

func (n *node) child(tok Token) *node {
	c, ok := n.children[tok]
	if !ok {
		c = &node{}
		if n.children == nil {
			n.children = map[Token]*node{}
		}
		n.children[tok] = c
	}
	return c
}

// -----------------------------------------------------------------------------
// Bus
// -----------------------------------------------------------------------------

type Bus struct {
	mu       sync.Mutex
	root     *node
	qLen     int
	replySeq atomic.Uint32
}

// NewBus creates a bus whose subscriptions buffer queueLen messages each.
// A full subscription drops its oldest message, never the newest.
func NewBus(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8
	}
	return &Bus{root: &node{}, qLen: queueLen}
}

// NewConnection creates a named attachment point for one service.
func (b *Bus) NewConnection(name string) *Connection {
	return &Connection{bus: b, name: name}
}

func (b *Bus) NewMessage(topic Topic, payload any, retained bool) *Message {
	return &Message{Topic: topic, Payload: payload, Retained: retained}
}

// deliver is non-blocking: on a full queue it drops the oldest entry.
func deliver(s *Subscription, msg *Message) {
	for {
		select {
		case s.ch <- msg:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// matchSubs collects subscriptions matching a literal publish topic,
// honoring "+" and "#" in stored subscription paths.
func matchSubs(n *node, topic Topic, i int, out *[]*Subscription) {
	if n == nil {
		return
	}
	if all, ok := n.children[Token(WildcardAll)]; ok {
		*out = append(*out, all.subs...)
	}
	if i == len(topic) {
		*out = append(*out, n.subs...)
		return
	}
	if c, ok := n.children[topic[i]]; ok {
		matchSubs(c, topic, i+1, out)
	}
	if c, ok := n.children[Token(WildcardOne)]; ok {
		matchSubs(c, topic, i+1, out)
	}
}

// matchRetained collects retained messages under a subscription topic,
// which may contain wildcards.
func matchRetained(n *node, topic Topic, i int, out *[]*Message) {
	if n == nil {
		return
	}
	if i == len(topic) {
		if n.retained != nil {
			*out = append(*out, n.retained)
		}
		return
	}
	switch topic[i] {
	case Token(WildcardAll):
		allRetained(n, out)
	case Token(WildcardOne):
		for _, c := range n.children {
			matchRetained(c, topic, i+1, out)
		}
	default:
		if c, ok := n.children[topic[i]]; ok {
			matchRetained(c, topic, i+1, out)
		}
	}
}

func allRetained(n *node, out *[]*Message) {
	if n.retained != nil {
		*out = append(*out, n.retained)
	}
	for _, c := range n.children {
		allRetained(c, out)
	}
}

// -----------------------------------------------------------------------------
// Connection
// -----------------------------------------------------------------------------

type Connection struct {
	bus  *Bus
	name string
	mu   sync.Mutex
	subs []*Subscription
}

func (c *Connection) Name() string { return c.name }

func (c *Connection) NewMessage(topic Topic, payload any, retained bool) *Message {
	return c.bus.NewMessage(topic, payload, retained)
}

// Publish routes msg to every matching subscription. Publish topics must be
// literal (no wildcard tokens). A retained message with a nil payload clears
// the stored value at that topic.
func (c *Connection) Publish(msg *Message) {
	if msg == nil || len(msg.Topic) == 0 {
		return
	}
	b := c.bus
	b.mu.Lock()
	if msg.Retained {
		n := b.root
		for _, tok := range msg.Topic {
			n = n.child(tok)
		}
		if msg.Payload == nil {
			n.retained = nil
		} else {
			n.retained = msg
		}
	}
	var targets []*Subscription
	matchSubs(b.root, msg.Topic, 0, &targets)
	for _, s := range targets {
		deliver(s, msg)
	}
	b.mu.Unlock()
}

// Subscribe registers for topic (wildcards allowed) and immediately queues
// any retained messages the topic matches.
func (c *Connection) Subscribe(topic Topic) *Subscription {
	s := &Subscription{topic: topic, ch: make(chan *Message, c.bus.qLen), conn: c}

	b := c.bus
	b.mu.Lock()
	n := b.root
	for _, tok := range topic {
		n = n.child(tok)
	}
	n.subs = append(n.subs, s)

	var retained []*Message
	matchRetained(b.root, topic, 0, &retained)
	for _, m := range retained {
		deliver(s, m)
	}
	b.mu.Unlock()

	c.mu.Lock()
	c.subs = append(c.subs, s)
	c.mu.Unlock()
	return s
}

// removeSub detaches s from the trie. Caller holds b.mu.
func (b *Bus) removeSub(s *Subscription) {
	n := b.root
	for _, tok := range s.topic {
		var ok bool
		if n, ok = n.children[tok]; !ok {
			return
		}
	}
	for i, sub := range n.subs {
		if sub == s {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			return
		}
	}
}

// Unsubscribe removes s from the bus and closes its channel, waking any
// receiver blocked on it. Delivery happens under the bus lock, so once the
// trie removal is done no publisher can still be sending here.
func (c *Connection) Unsubscribe(s *Subscription) {
	if s == nil || s.conn != c {
		return
	}
	b := c.bus
	b.mu.Lock()
	b.removeSub(s)
	b.mu.Unlock()

	c.mu.Lock()
	for i, sub := range c.subs {
		if sub == s {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	close(s.ch)
}

// Disconnect drops all of the connection's subscriptions and closes their
// channels.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	b := c.bus
	b.mu.Lock()
	for _, s := range subs {
		b.removeSub(s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		close(s.ch)
	}
}

// -----------------------------------------------------------------------------
// Request / Reply
// -----------------------------------------------------------------------------

const replyPrefix = "_reply"

// Request stamps msg with a fresh ReplyTo topic, subscribes to it and
// publishes the request. The caller owns the returned subscription.
func (c *Connection) Request(msg *Message) *Subscription {
	seq := c.bus.replySeq.Add(1)
	msg.ReplyTo = Topic{replyPrefix, c.name, seq}
	sub := c.Subscribe(msg.ReplyTo)
	c.Publish(msg)
	return sub
}

// RequestWait publishes msg and blocks for a single reply or ctx expiry.
func (c *Connection) RequestWait(ctx context.Context, msg *Message) (*Message, error) {
	sub := c.Request(msg)
	defer c.Unsubscribe(sub)
	select {
	case reply := <-sub.ch:
		return reply, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Reply answers a request on its ReplyTo topic. No-op if the request did
// not ask for a reply.
func (c *Connection) Reply(req *Message, payload any, retained bool) {
	if !req.CanReply() {
		return
	}
	c.Publish(&Message{Topic: req.ReplyTo, Payload: payload, Retained: retained})
}
