package models

import "time"

type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

type Donor struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone,omitempty"`
	Address   Address `json:"address"`
}

// PaymentRequest is built once per submission and owned by a single pipeline run.
// Amount is in currency minor units.
type PaymentRequest struct {
	Donor          Donor  `json:"donor"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	FrequencyID    string `json:"frequencyId"`
	ProviderID     string `json:"providerId"`
	WebformID      string `json:"webformId"`
	PaymentToken   string `json:"paymentToken,omitempty"`
	Duration       int    `json:"duration,omitempty"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

// RawResult is the opaque gateway payload.
type RawResult map[string]any

type PaymentResult struct {
	Success       bool
	TransactionID string
	Status        string
	RawResult     RawResult
	PaymentData   PaymentData
}

// PaymentRecord is the normalized record handed to the export queue.
type PaymentRecord struct {
	TransactionID string
	WebformID     string
	ProviderID    string
	FrequencyID   string
	Data          PaymentData
	Timestamp     time.Time
}

// Field is a single normalized scalar value.
type Field struct {
	Key   string
	Value any
}

// PaymentData is an ordered mapping of string keys to scalar values.
type PaymentData []Field

// Set replaces the value of an existing key or appends a new one.
func (d PaymentData) Set(key string, value any) PaymentData {
	for i := range d {
		if d[i].Key == key {
			d[i].Value = value
			return d
		}
	}

	return append(d, Field{Key: key, Value: value})
}

func (d PaymentData) Get(key string) (any, bool) {
	for _, f := range d {
		if f.Key == key {
			return f.Value, true
		}
	}

	return nil, false
}

func (d PaymentData) Keys() []string {
	keys := make([]string, 0, len(d))
	for _, f := range d {
		keys = append(keys, f.Key)
	}

	return keys
}
