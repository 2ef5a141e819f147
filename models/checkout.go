package models

import "encoding/json"

// CheckoutSession is a short-lived record of an initiated payment, held in
// Redis until the gateway confirms or the TTL expires. Confirming a
// session deletes it, so a session id can be redeemed at most once.
type CheckoutSession struct {
	ID      string      `json:"id"`
	Kind    PaymentType `json:"kind"`
	Email   string      `json:"email"`
	IssueID string      `json:"issueId,omitempty"`
	Amount  int         `json:"amount"`
}

func (s *CheckoutSession) Marshal() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func UnmarshalCheckoutSession(data string) (*CheckoutSession, error) {
	var s CheckoutSession
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, err
	}
	return &s, nil
}
