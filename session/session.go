// Package session drives single proof exchanges through their lifecycle.
//
// A session wires one prover to one verifier and walks the exchange through
// commitment, challenge, response and verdict. Sessions are single use: once
// a verdict is reached every further operation is refused.
package session

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paul-weiss/zkp/log"
	"github.com/paul-weiss/zkp/metrics"
	"github.com/paul-weiss/zkp/schnorr"
)

// Status tracks where a session is in the commitment, challenge, response,
// verdict lifecycle.
type Status uint32

const (
	Fresh Status = iota
	Committed
	Challenged
	Responded
	Accepted
	Rejected
	Discarded
)

func (s Status) String() string {
	switch s {
	case Fresh:
		return "Fresh"
	case Committed:
		return "Committed"
	case Challenged:
		return "Challenged"
	case Responded:
		return "Responded"
	case Accepted:
		return "Accepted"
	case Rejected:
		return "Rejected"
	case Discarded:
		return "Discarded"
	default:
		panic("impossible session state received")
	}
}

// Terminal reports whether the session has reached a verdict.
func (s Status) Terminal() bool {
	return s == Accepted || s == Rejected
}

func isValidStateChange(current, next Status) bool {
	switch current {
	case Fresh:
		return next == Committed || next == Discarded
	case Committed:
		return next == Challenged || next == Discarded
	case Challenged:
		return next == Responded || next == Discarded
	case Responded:
		return next == Accepted || next == Rejected || next == Discarded
	case Accepted, Rejected, Discarded:
		return false
	}
	return false
}

// ErrInvalidTransition is wrapped by every refused state change.
var ErrInvalidTransition = errors.New("invalid state transition")

// ErrNoVerdict is returned when a result is requested before the session
// settled.
var ErrNoVerdict = errors.New("session has not reached a verdict")

// ErrNoTranscript is returned when a transcript is requested before the
// response was produced.
var ErrNoTranscript = errors.New("session holds no complete transcript")

// InvalidStateChange spells out a refused transition.
func InvalidStateChange(from, to Status) error {
	return fmt.Errorf("invalid transition attempt from %s to %s: %w", from.String(), to.String(), ErrInvalidTransition)
}

// Session runs one proof exchange between a prover and a verifier that share
// group parameters and public key. The mutex serializes the steps, so a
// session can be driven from multiple goroutines without breaking the
// lifecycle order.
type Session struct {
	mu sync.Mutex

	id       uuid.UUID
	log      log.Logger
	prover   *schnorr.Prover
	verifier *schnorr.Verifier
	context  []byte

	status Status
	nonce  *schnorr.Nonce
	t      *big.Int
	c      *big.Int
	s      *big.Int
}

// Option configures a session at creation.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l log.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithContext attaches application data that derived challenges are bound
// to. Interactive challenges ignore it.
func WithContext(data []byte) Option {
	return func(s *Session) { s.context = data }
}

// New returns a fresh session ready to run one exchange. The prover and
// verifier must agree on the group parameters, the public key and the
// challenge scheme.
func New(prover *schnorr.Prover, verifier *schnorr.Verifier, opts ...Option) (*Session, error) {
	if prover == nil || verifier == nil {
		return nil, errors.New("session: missing prover or verifier")
	}
	if !prover.Params().Equal(verifier.Params()) {
		return nil, errors.New("session: prover and verifier disagree on group parameters")
	}
	if prover.PublicKey().Cmp(verifier.PublicKey()) != 0 {
		return nil, errors.New("session: verifier holds a different public key")
	}
	if prover.Scheme().Name != verifier.Scheme().Name {
		return nil, fmt.Errorf("session: prover uses scheme %s, verifier %s", prover.Scheme().Name, verifier.Scheme().Name)
	}
	s := &Session{
		id:       uuid.New(),
		log:      log.DefaultLogger(),
		prover:   prover,
		verifier: verifier,
		status:   Fresh,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("session").With("session_id", s.id.String())
	return s, nil
}

// ID returns the unique identifier of the session.
func (s *Session) ID() string {
	return s.id.String()
}

// Status returns the current lifecycle position.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Commit asks the prover for a fresh commitment and records it.
func (s *Session) Commit() (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !isValidStateChange(s.status, Committed) {
		return nil, InvalidStateChange(s.status, Committed)
	}
	nonce, t, err := s.prover.Commit()
	if err != nil {
		return nil, err
	}
	s.nonce = nonce
	s.t = t
	s.status = Committed
	s.log.Debugw("commitment recorded", "status", s.status)
	return new(big.Int).Set(t), nil
}

// Challenge draws a fresh random challenge from the verifier.
func (s *Session) Challenge() (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !isValidStateChange(s.status, Challenged) {
		return nil, InvalidStateChange(s.status, Challenged)
	}
	s.c = s.verifier.Challenge()
	s.status = Challenged
	metrics.ChallengeCounter.WithLabelValues("interactive").Inc()
	s.log.Debugw("challenge drawn", "status", s.status)
	return new(big.Int).Set(s.c), nil
}

// DeriveChallenge computes the challenge from the commitment and the session
// context instead of drawing one, turning the run into a non interactive
// proof.
func (s *Session) DeriveChallenge() (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !isValidStateChange(s.status, Challenged) {
		return nil, InvalidStateChange(s.status, Challenged)
	}
	c, err := s.verifier.DeriveChallenge(s.t, s.context)
	if err != nil {
		return nil, err
	}
	s.c = c
	s.status = Challenged
	metrics.ChallengeCounter.WithLabelValues("derived").Inc()
	s.log.Debugw("challenge derived", "status", s.status)
	return new(big.Int).Set(c), nil
}

// Respond answers the recorded challenge.
func (s *Session) Respond() (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !isValidStateChange(s.status, Responded) {
		return nil, InvalidStateChange(s.status, Responded)
	}
	resp, err := s.prover.Respond(s.nonce, s.c)
	if err != nil {
		return nil, err
	}
	s.nonce = nil
	s.s = resp
	s.status = Responded
	s.log.Debugw("response produced", "status", s.status)
	return new(big.Int).Set(resp), nil
}

// Verify checks the verification equation and settles the verdict.
func (s *Session) Verify() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !isValidStateChange(s.status, Accepted) {
		return false, InvalidStateChange(s.status, Accepted)
	}
	now := time.Now()
	ok, err := s.verifier.Verify(s.t, s.c, s.s)
	metrics.VerifyLatency.Observe(time.Since(now).Seconds())
	if err != nil {
		return false, err
	}
	if ok {
		s.status = Accepted
		metrics.SessionCounter.WithLabelValues("accepted").Inc()
	} else {
		s.status = Rejected
		metrics.SessionCounter.WithLabelValues("rejected").Inc()
	}
	s.log.Infow("session settled", "verdict", s.status)
	return ok, nil
}

// Discard abandons a session that has not settled. The outstanding nonce is
// wiped right away and every later step is refused.
func (s *Session) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !isValidStateChange(s.status, Discarded) {
		return InvalidStateChange(s.status, Discarded)
	}
	if s.nonce != nil {
		s.prover.Discard(s.nonce)
		s.nonce = nil
	}
	s.status = Discarded
	s.log.Debugw("session discarded", "status", s.status)
	return nil
}

// Result returns the verdict of a settled session.
func (s *Session) Result() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.status.Terminal() {
		return false, fmt.Errorf("session is %s: %w", s.status, ErrNoVerdict)
	}
	return s.status == Accepted, nil
}

// Transcript returns a copy of the exchange once the response exists. For
// runs with derived challenges the transcript is independently verifiable.
func (s *Session) Transcript() (*schnorr.Transcript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != Responded && !s.status.Terminal() {
		return nil, fmt.Errorf("session is %s: %w", s.status, ErrNoTranscript)
	}
	return &schnorr.Transcript{
		T: new(big.Int).Set(s.t),
		C: new(big.Int).Set(s.c),
		S: new(big.Int).Set(s.s),
	}, nil
}

// Run drives a full interactive exchange and returns the verdict.
func (s *Session) Run() (bool, error) {
	if _, err := s.Commit(); err != nil {
		return false, err
	}
	if _, err := s.Challenge(); err != nil {
		return false, err
	}
	if _, err := s.Respond(); err != nil {
		return false, err
	}
	return s.Verify()
}

// RunNonInteractive produces a verifiable transcript and settles the session
// in one call.
func (s *Session) RunNonInteractive() (*schnorr.Transcript, bool, error) {
	if _, err := s.Commit(); err != nil {
		return nil, false, err
	}
	if _, err := s.DeriveChallenge(); err != nil {
		return nil, false, err
	}
	if _, err := s.Respond(); err != nil {
		return nil, false, err
	}
	ok, err := s.Verify()
	if err != nil {
		return nil, false, err
	}
	tr, err := s.Transcript()
	if err != nil {
		return nil, false, err
	}
	return tr, ok, nil
}
