// Package entities contains the transaction tracker domain entities
package entities

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Contract types reported by the transaction API
const (
	ContractTypeTransfer      = 1
	ContractTypeSmartContract = 31
)

// Amount is a transaction amount kept as the API sent it. The API
// encodes it either as a JSON number or as a JSON string.
type Amount string

// UnmarshalJSON accepts a number, a string or null
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
	default:
		*a = Amount(data)
	}
	return nil
}

// Float parses the amount. ok is false for absent or non-numeric amounts.
func (a Amount) Float() (value float64, ok bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(a)), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Positive reports whether the amount is numeric and strictly greater than zero
func (a Amount) Positive() bool {
	v, ok := a.Float()
	return ok && v > 0
}

// Transaction is one entry of the recent transactions feed. It lives for a
// single poll cycle and is never persisted.
type Transaction struct {
	Hash         string `json:"hash"`
	OwnerAddress string `json:"ownerAddress"`
	ToAddress    string `json:"toAddress"`
	Amount       Amount `json:"amount"`
	ContractType int    `json:"contractType"`
	Confirmed    bool   `json:"confirmed"`
	Revert       bool   `json:"revert"`
	// Timestamp is epoch milliseconds, zero when absent
	Timestamp int64 `json:"timestamp"`
}

// TypeLabel classifies the contract type
func (t Transaction) TypeLabel() string {
	switch t.ContractType {
	case ContractTypeTransfer:
		return "Transfer"
	case ContractTypeSmartContract:
		return "Smart Contract"
	default:
		return "Other"
	}
}

// StatusLabel classifies the confirmation state
func (t Transaction) StatusLabel() string {
	switch {
	case t.Revert:
		return "❌ Failed"
	case t.Confirmed:
		return "✅ Successful"
	default:
		return "⏳ Pending"
	}
}

// Time returns the transaction time. ok is false when the timestamp is absent.
func (t Transaction) Time() (time.Time, bool) {
	if t.Timestamp <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(t.Timestamp), true
}

// Report is the set of transactions retained by one poll cycle
type Report struct {
	CycleID      string        `json:"cycle_id"`
	GeneratedAt  time.Time     `json:"generated_at"`
	Count        int           `json:"count"`
	Transactions []Transaction `json:"transactions"`
}
