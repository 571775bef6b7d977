package constant

const (
	HXRequest    = "HX-Request"
	HXTrigger    = "HX-Trigger"
	HXRedirect   = "HX-Redirect"
	HXRetarget   = "HX-Retarget"
	HXReswap     = "HX-Reswap"
	HXTarget     = "HX-Target"
	EventLedger  = "ledgerChanged"
	EventMessage = "showMessage"

	TableTarget = "hTableContainer"

	AccessTokenCookie = "access_token"
	FlashCookie       = "flash_session"
)

const (
	ControlSearch           = "search"
	ControlColumnVisibility = "columnVisibility"
	ControlExportButton     = "exportButton"
	ControlPageLimit        = "pageLimit"
	ControlPageNavigation   = "pageNavigation"
)

// DefaultTableControls lists the controls a generic table renders unless its
// registration overrides them.
func DefaultTableControls() []string {
	return []string{ControlSearch, ControlColumnVisibility, ControlExportButton, ControlPageLimit, ControlPageNavigation}
}

const (
	DateLayout      = "2006-01-02"
	MonthLayout     = "2006-01"
	DisplayDate     = "Jan 02, 2006"
	DisplayMonth    = "January 2006"
	RecentDateLimit = 10
)

// Per-page choices for the ledger and month views.
func LogPerPageOptions() []int {
	return []int{5, 10, 15, 20, 25}
}
