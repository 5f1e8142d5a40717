package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/bassamadnan/inboxpilot/journal"
	"github.com/bassamadnan/inboxpilot/mailbox"
	"github.com/bassamadnan/inboxpilot/responder"
)

type fakeProvider struct {
	unread   []string
	messages map[string]mailbox.Message
	listErr  error
	fetchErr map[string]error
	sendErr  error
	markErr  error

	listCalls int
	sendCtx   []error
	sent      []mailbox.Reply
	marked    []string
	onList    func()
}

func newProvider(msgs ...mailbox.Message) *fakeProvider {
	p := &fakeProvider{messages: map[string]mailbox.Message{}, fetchErr: map[string]error{}}
	for _, m := range msgs {
		p.unread = append(p.unread, m.ID)
		p.messages[m.ID] = m
	}
	return p
}

func (p *fakeProvider) ListUnread(_ context.Context, max int) ([]string, error) {
	p.listCalls++
	if p.onList != nil {
		p.onList()
	}
	if p.listErr != nil {
		return nil, p.listErr
	}
	ids := p.unread
	if len(ids) > max {
		ids = ids[:max]
	}
	return ids, nil
}

func (p *fakeProvider) FetchDetail(_ context.Context, id string) (*mailbox.Message, error) {
	if err := p.fetchErr[id]; err != nil {
		return nil, err
	}
	m, ok := p.messages[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &m, nil
}

func (p *fakeProvider) Send(ctx context.Context, reply mailbox.Reply) error {
	p.sendCtx = append(p.sendCtx, ctx.Err())
	if p.sendErr != nil {
		return p.sendErr
	}
	p.sent = append(p.sent, reply)
	return nil
}

func (p *fakeProvider) MarkRead(_ context.Context, id string) error {
	if p.markErr != nil {
		return p.markErr
	}
	p.marked = append(p.marked, id)
	return nil
}

type fakeDrafter struct {
	sentiment responder.Sentiment
	draft     string
	err       error
	panicFor  string
	calls     int
}

func (d *fakeDrafter) AnalyzeSentiment(_ context.Context, msg mailbox.Message) responder.Sentiment {
	if msg.ID == d.panicFor {
		panic("classifier exploded")
	}
	if d.sentiment == "" {
		return responder.Neutral
	}
	return d.sentiment
}

func (d *fakeDrafter) GenerateResponse(_ context.Context, _ mailbox.Message) (string, error) {
	d.calls++
	return d.draft, d.err
}

// scriptedOperator answers from decisions in order; once they run out it
// returns err, or Skip when err is nil.
type scriptedOperator struct {
	decisions []Decision
	err       error

	announced []string
	reviews   []Review
	outcomes  []Result
	onOutcome func(Result)

	started []int
	waits   []time.Duration
}

func (o *scriptedOperator) Announce(msg mailbox.Message) {
	o.announced = append(o.announced, msg.ID)
}

func (o *scriptedOperator) Decide(_ context.Context, review Review) (Decision, error) {
	o.reviews = append(o.reviews, review)
	if len(o.decisions) == 0 {
		if o.err != nil {
			return Decision{}, o.err
		}
		return Decision{Action: Skip}, nil
	}
	d := o.decisions[0]
	o.decisions = o.decisions[1:]
	return d, nil
}

func (o *scriptedOperator) Outcome(res Result) {
	o.outcomes = append(o.outcomes, res)
	if o.onOutcome != nil {
		o.onOutcome(res)
	}
}

func (o *scriptedOperator) CycleStarted(found int)  { o.started = append(o.started, found) }
func (o *scriptedOperator) Waiting(d time.Duration) { o.waits = append(o.waits, d) }

type memRecorder struct {
	entries []journal.Entry
	err     error
}

func (r *memRecorder) Record(_ context.Context, e journal.Entry) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	return nil
}

func bob() mailbox.Message {
	return mailbox.Message{
		ID:        "m1",
		ThreadID:  "t1",
		MessageID: "<q1@x.com>",
		Sender:    "Bob <bob@x.com>",
		Subject:   "Question",
		Body:      "Can you help me reset my password?",
	}
}

func newPipeline(p *fakeProvider, d *fakeDrafter, o *scriptedOperator) *Pipeline {
	return New(p, responder.NewFilter("me@example.com", nil), d, o, nil)
}
