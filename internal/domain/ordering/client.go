package ordering

import (
	"strings"

	"github.com/fiado/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// brazilCountryCode is prefixed to phone numbers before dispatching.
const brazilCountryCode = "55"

// Client is someone who buys on a running tab. The phone is stored in
// digits-only canonical form; a client without a phone can exist but can
// never be notified.
type Client struct {
	shared.TenantEntity
	Name  string
	Phone string
}

// NewClient creates a client, normalizing the phone to digits only.
func NewClient(tenantID uuid.UUID, name, phone string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name is required")
	}
	return &Client{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		Phone:        NormalizePhone(phone),
	}, nil
}

// Rename updates the client's name and phone.
func (c *Client) Rename(name, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name is required")
	}
	c.Name = name
	c.Phone = NormalizePhone(phone)
	return nil
}

// DialNumber returns the phone in dispatch form: digits only with the
// country code prefixed. Empty when the client has no usable phone.
func (c *Client) DialNumber() string {
	return DialNumber(c.Phone)
}

// NormalizePhone strips everything that is not a digit.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DialNumber normalizes a raw phone and prefixes the country code when it
// is not already present. Returns empty for unusable input.
func DialNumber(phone string) string {
	digits := NormalizePhone(phone)
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, brazilCountryCode) {
		return digits
	}
	return brazilCountryCode + digits
}
