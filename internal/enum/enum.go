package enum

// ── Group A: State machines ──

const (
	OrderStageConfirmed = "confirmed"
	OrderStagePreparing = "preparing"
	OrderStageDelivery  = "delivery"
	OrderStageDelivered = "delivered"
)

// ── Group B: Checkout choices ──

const (
	PaymentMethodCard = "card"
	PaymentMethodCOD  = "cod"
)

const (
	CountryUS = "US"
	CountryCA = "CA"
	CountryGB = "GB"
)

// ── Group C: Listing filters (labels only, not enforced against the catalog) ──

const (
	CuisineItalian = "Italian"
	CuisineMexican = "Mexican"
	CuisineChinese = "Chinese"
	CuisineIndian  = "Indian"
	CuisineBurgers = "Burgers"
	CuisinePizza   = "Pizza"
)

// CuisineFilters is the ordered set of toggles shown on the restaurant listing.
var CuisineFilters = []string{
	CuisineItalian,
	CuisineMexican,
	CuisineChinese,
	CuisineIndian,
	CuisineBurgers,
	CuisinePizza,
}

// Countries maps the selectable country codes to display names, in form order.
var Countries = []struct {
	Code string
	Name string
}{
	{CountryUS, "United States"},
	{CountryCA, "Canada"},
	{CountryGB, "United Kingdom"},
}

// ── Group D: Event types pushed over WebSocket and AMQP ──

const (
	EventOrderPlaced   = "order.placed"
	EventStageAdvanced = "order.stage_advanced"
	EventOrderComplete = "order.delivered"
	EventSnapshot      = "order.snapshot"
)
