package models

// Environment names.
const (
	EnvironmentProd  = "prod"
	EnvironmentStage = "stage"
)

// EnvironmentProfile is the admin API destination selected from the hostname.
// It is chosen once at startup and never changes afterwards.
type EnvironmentProfile struct {
	Name      string `json:"name"`
	APIBase   string `json:"apiBase"`
	ProductID string `json:"productId,omitempty"`
}

// SupportsSubscriptions reports whether a subscription product is configured.
func (p EnvironmentProfile) SupportsSubscriptions() bool {
	return p.ProductID != ""
}
