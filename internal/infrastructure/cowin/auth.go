package cowin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/example/slotfinder/internal/domain/appointment"
	"github.com/example/slotfinder/internal/infrastructure/crypto"
	"github.com/example/slotfinder/internal/internaltypes"
)

// TokenTTL is how long the provider honours a bearer token.
const TokenTTL = 15 * time.Minute

// GenerateOTP sends a one-time code to phone and returns the transaction id.
func (c *Client) GenerateOTP(ctx context.Context, phone string) (string, error) {
	path := "/v2/auth/public/generateOTP"
	body := map[string]string{"mobile": phone}
	if c.secret != "" {
		path = "/v2/auth/generateMobileOTP"
		body["secret"] = c.secret
	}
	var res struct {
		TxnID string `json:"txnId"`
	}
	if err := c.do(ctx, http.MethodPost, path, "", nil, body, &res); err != nil {
		return "", err
	}
	if res.TxnID == "" {
		return "", fmt.Errorf("%w: no txnId in OTP response", ErrMalformed)
	}
	return res.TxnID, nil
}

// ConfirmOTP exchanges a one-time code for a bearer token.
func (c *Client) ConfirmOTP(ctx context.Context, txnID, otp string) (string, error) {
	path := "/v2/auth/public/confirmOTP"
	if c.secret != "" {
		path = "/v2/auth/validateMobileOtp"
	}
	body := map[string]string{"otp": crypto.HashOTP(otp), "txnId": txnID}
	var res struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, path, "", nil, body, &res); err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", fmt.Errorf("%w: no token in OTP confirmation", ErrMalformed)
	}
	return res.Token, nil
}

func (c *Client) Beneficiaries(ctx context.Context, token string) ([]Beneficiary, error) {
	var res struct {
		Beneficiaries []Beneficiary `json:"beneficiaries"`
	}
	if err := c.do(ctx, http.MethodGet, "/v2/appointment/beneficiaries", token, nil, nil, &res); err != nil {
		return nil, err
	}
	return res.Beneficiaries, nil
}

// OTPPrompt asks the operator for the code sent to phone.
type OTPPrompt func(ctx context.Context, phone string) (string, error)

// Authenticator implements appointment.Authenticator with the OTP flow.
type Authenticator struct {
	Client *Client
	Prompt OTPPrompt
	Logger *log.Logger
	// MaxTries bounds how many rejected codes are tolerated. Defaults to 3.
	MaxTries int
	Now      func() time.Time
}

func (a *Authenticator) Authenticate(ctx context.Context, phone string, subjectIDs []string) (appointment.Session, error) {
	if a.Prompt == nil {
		return appointment.Session{}, fmt.Errorf("%w: no OTP prompt configured", internaltypes.ErrAuthentication)
	}
	logger := a.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	tries := a.MaxTries
	if tries <= 0 {
		tries = 3
	}

	txnID, err := a.Client.GenerateOTP(ctx, phone)
	if err != nil {
		return appointment.Session{}, fmt.Errorf("%w: request OTP: %w", internaltypes.ErrAuthentication, err)
	}
	logger.Printf("cowin: OTP sent to %s", maskPhone(phone))

	var token string
	for try := 1; try <= tries; try++ {
		otp, err := a.Prompt(ctx, phone)
		if err != nil {
			return appointment.Session{}, fmt.Errorf("%w: read OTP: %w", internaltypes.ErrAuthentication, err)
		}
		token, err = a.Client.ConfirmOTP(ctx, txnID, strings.TrimSpace(otp))
		if err == nil {
			break
		}
		if !otpRejected(err) || try == tries {
			return appointment.Session{}, fmt.Errorf("%w: confirm OTP: %w", internaltypes.ErrAuthentication, err)
		}
		logger.Printf("cowin: OTP rejected (%d/%d)", try, tries)
	}

	benes, err := a.Client.Beneficiaries(ctx, token)
	if err != nil {
		return appointment.Session{}, fmt.Errorf("%w: list beneficiaries: %w", internaltypes.ErrAuthentication, err)
	}
	if missing := missingBeneficiaries(benes, subjectIDs); len(missing) > 0 {
		return appointment.Session{}, internaltypes.NewFieldError(internaltypes.ErrAuthentication,
			"auth.subject_ids", "not registered under "+maskPhone(phone), missing...)
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	return appointment.Session{Token: token, Phone: phone, ExpiresAt: now().Add(TokenTTL)}, nil
}

func otpRejected(err error) bool {
	if errors.Is(err, internaltypes.ErrUnauthorized) {
		return true
	}
	return statusCode(err) == http.StatusBadRequest
}

func missingBeneficiaries(benes []Beneficiary, ids []string) []string {
	known := make(map[string]bool, len(benes))
	for _, b := range benes {
		known[b.ReferenceID] = true
	}
	var missing []string
	for _, id := range ids {
		if !known[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
