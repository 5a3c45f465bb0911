package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

const MinAddressLength = 3

const (
	MsgNoAddress       = "No web address has been entered. Enter the address of the web page that should be presented to the learner."
	MsgAddressTooShort = "The web address is too short. A web address must be at least 3 characters long."
	MsgAddressInvalid  = "The web address is not a valid URL. Enter a full address such as https://www.example.com."
	MsgNoProviderURL   = "No external strategy provider URL is configured on the server. Turn off requesting the strategy using session state, or ask an administrator to set the provider URL."
)

var validate = validator.New()

// Validator returns the shared validator used for request payloads.
func Validator() *validator.Validate { return validate }

// CheckAddress validates a web address and returns the message to display,
// or "" when the address is acceptable.
func CheckAddress(address string) string {
	address = strings.TrimSpace(address)
	switch {
	case address == "":
		return MsgNoAddress
	case len(address) < MinAddressLength:
		return MsgAddressTooShort
	case validate.Var(address, "url") != nil:
		return MsgAddressInvalid
	}
	return ""
}
