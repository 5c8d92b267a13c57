package enums

import "fmt"

// AgentRunState tags where a shopping agent is in its flow. The service does
// not enforce a transition graph; any state may follow any other.
type AgentRunState string

const (
	AgentRunStateDiscoverMerchant   AgentRunState = "DISCOVER_MERCHANT"
	AgentRunStateCheckCapabilities  AgentRunState = "CHECK_CAPABILITIES"
	AgentRunStateResolveIngredients AgentRunState = "RESOLVE_INGREDIENTS"
	AgentRunStateBuildCartDraft     AgentRunState = "BUILD_CART_DRAFT"
	AgentRunStateQuoteCart          AgentRunState = "QUOTE_CART"
	AgentRunStateAwaitingApproval   AgentRunState = "AWAITING_APPROVAL"
	AgentRunStateCheckout           AgentRunState = "CHECKOUT"
	AgentRunStateOrderCreated       AgentRunState = "ORDER_CREATED"
	AgentRunStateOrderTracking      AgentRunState = "ORDER_TRACKING"
	AgentRunStateFailed             AgentRunState = "FAILED"
)

var validAgentRunStates = []AgentRunState{
	AgentRunStateDiscoverMerchant,
	AgentRunStateCheckCapabilities,
	AgentRunStateResolveIngredients,
	AgentRunStateBuildCartDraft,
	AgentRunStateQuoteCart,
	AgentRunStateAwaitingApproval,
	AgentRunStateCheckout,
	AgentRunStateOrderCreated,
	AgentRunStateOrderTracking,
	AgentRunStateFailed,
}

// String implements fmt.Stringer.
func (s AgentRunState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AgentRunState.
func (s AgentRunState) IsValid() bool {
	for _, candidate := range validAgentRunStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAgentRunState converts raw input into an AgentRunState.
func ParseAgentRunState(value string) (AgentRunState, error) {
	for _, candidate := range validAgentRunStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid agent run state %q", value)
}
