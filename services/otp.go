package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// OTPTTL is how long a code stays valid after dispatch.
const OTPTTL = 300 * time.Second

var (
	// ErrUnauthenticated means a flow step was reached out of order (no
	// bound email, or reset without a verified code).
	ErrUnauthenticated = errors.New("reset flow step out of order")
	// ErrNoOTP means no code is on record for the bound email.
	ErrNoOTP = errors.New("no otp on record")
	// ErrCodeExpired means the code's TTL elapsed before verification.
	ErrCodeExpired = errors.New("otp expired")
	// ErrCodeMismatch means the submitted code does not match.
	ErrCodeMismatch = errors.New("otp mismatch")
	// ErrPasswordRequired means the new password was empty.
	ErrPasswordRequired = errors.New("new password required")
)

// OTPRecord is one live code. At most one exists per email; a new request
// overwrites the prior record, invalidating its code.
type OTPRecord struct {
	Code   string
	Expiry time.Time
}

// OTPStore holds live codes in process memory only: codes are lost on
// restart and never proactively pruned. Expiry is enforced lazily at
// verification time.
type OTPStore struct {
	mu      sync.Mutex
	records map[string]OTPRecord
}

func NewOTPStore() *OTPStore {
	return &OTPStore{records: make(map[string]OTPRecord)}
}

func (s *OTPStore) Put(email, code string, expiry time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[email] = OTPRecord{Code: code, Expiry: expiry}
}

func (s *OTPStore) Get(email string) (OTPRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[email]
	return rec, ok
}

// ResetSession is the flow state bound to one browser session. The zero
// value is the idle state.
type ResetSession struct {
	Email    string
	Verified bool
}

// ResetFlow is the OTP-gated password-reset state machine:
// idle → awaiting code → verified → done. Abandonment or expiry returns the
// caller to idle. Flows for different emails are independent; a second
// request for the same email overwrites the first code.
type ResetFlow struct {
	otps     *OTPStore
	identity IdentityProvider
	mailer   Mailer
	log      zerolog.Logger

	ttl time.Duration
	now func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewResetFlow(otps *OTPStore, identity IdentityProvider, mailer Mailer, log zerolog.Logger) *ResetFlow {
	return &ResetFlow{
		otps:     otps,
		identity: identity,
		mailer:   mailer,
		log:      log,
		ttl:      OTPTTL,
		now:      time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Request starts the flow: the email must resolve to a provider account,
// then a fresh 6-digit code is stored under the email and mailed out. On
// success the returned session has the email bound.
func (f *ResetFlow) Request(ctx context.Context, email string) (ResetSession, error) {
	if err := f.identity.Lookup(ctx, email); err != nil {
		return ResetSession{}, err
	}
	if err := f.dispatch(email); err != nil {
		return ResetSession{}, err
	}
	return ResetSession{Email: email}, nil
}

// Resend regenerates the code for the session-bound email, overwriting and
// thereby invalidating the previous one. It fails when no email is bound or
// no code was ever requested for it.
func (f *ResetFlow) Resend(sess ResetSession) error {
	if sess.Email == "" {
		return ErrUnauthenticated
	}
	if _, ok := f.otps.Get(sess.Email); !ok {
		return ErrNoOTP
	}
	return f.dispatch(sess.Email)
}

// Verify checks the submitted code: it must match exactly and the current
// time must be strictly before the stored expiry. A missing or expired
// record sends the caller back to the request step; a wrong code keeps the
// session awaiting.
func (f *ResetFlow) Verify(sess ResetSession, code string) (ResetSession, error) {
	if sess.Email == "" {
		return sess, ErrUnauthenticated
	}
	rec, ok := f.otps.Get(sess.Email)
	if !ok {
		return sess, ErrNoOTP
	}
	if !f.now().Before(rec.Expiry) {
		return sess, ErrCodeExpired
	}
	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) != 1 {
		return sess, ErrCodeMismatch
	}
	sess.Verified = true
	return sess, nil
}

// Reset completes the flow for a verified session by asking the identity
// provider to dispatch its password-reset email. The caller must clear the
// session afterwards, returning the flow to idle.
func (f *ResetFlow) Reset(ctx context.Context, sess ResetSession, newPassword string) error {
	if sess.Email == "" || !sess.Verified {
		return ErrUnauthenticated
	}
	if newPassword == "" {
		return ErrPasswordRequired
	}
	return f.identity.SendResetLink(ctx, sess.Email)
}

func (f *ResetFlow) dispatch(email string) error {
	code := f.newCode()
	f.otps.Put(email, code, f.now().Add(f.ttl))

	body := fmt.Sprintf("Kode OTP Anda adalah %s. Berlaku selama 5 menit.", code)
	if err := f.mailer.Send(email, "Reset Password - Leafie", body); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}
	f.log.Info().Str("email", email).Msg("OTP dispatched")
	return nil
}

// newCode draws a uniform 6-digit decimal code, leading zeros included.
func (f *ResetFlow) newCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fmt.Sprintf("%06d", f.rnd.Intn(1000000))
}
