package payment

import "fmt"

// Method is the top-level payment method the shopper picked at checkout.
type Method string

const (
	MethodQRIS           Method = "qris"
	MethodEWallet        Method = "ewallet"
	MethodVirtualAccount Method = "va"
)

var channels = map[Method][]string{
	MethodQRIS:           {"qris"},
	MethodEWallet:        {"gopay", "ovo", "dana", "shopeepay"},
	MethodVirtualAccount: {"bca", "bni", "bri", "mandiri", "permata"},
}

// Selection is the shopper's chosen method plus the concrete channel
// within it (e-wallet variant or virtual-account bank).
type Selection struct {
	Method  Method `json:"method"`
	Channel string `json:"channel"`
}

func (s Selection) Validate() error {
	valid, ok := channels[s.Method]
	if !ok {
		return fmt.Errorf("unknown payment method %q", s.Method)
	}
	for _, c := range valid {
		if c == s.Channel {
			return nil
		}
	}
	return fmt.Errorf("channel %q is not valid for method %q", s.Channel, s.Method)
}
