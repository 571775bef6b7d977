package constant

// User-facing messages returned by the HTTP layer.
const (
	MsgValidationError  = "Invalid data provided. Please check your input."
	MsgDatabaseError    = "An unexpected error occurred. Please try again later."
	MsgDataConflict     = "Data conflict detected. Please check your input."
	MsgInvalidFormat    = "Invalid data format. Please check and try again."
	MsgNotFound         = "Requested data not found."
	MsgPermissionDenied = "You do not have permission to perform this action."
	MsgInvalidRequest   = "Invalid request. Please try again."
	MsgTimeout          = "The request took too long. Please try again later."
	MsgUnauthorized     = "Unauthorized access detected. Please log in and try again."
	MsgSessionExpired   = "Your session has expired. Please log in again."
	MsgInvalidLogin     = "Incorrect username or password. Please try again."
	MsgMethodNotAllowed = "Method not allowed"

	MsgLoginSuccess  = "Login successful!"
	MsgLogoutSuccess = "Logged out."
)

// Ledger
const (
	MsgBalanceUpdated        = "Bank balance updated successfully."
	MsgTransactionRecorded   = "Transaction recorded successfully."
	MsgTransactionFailed     = "Failed to record transaction."
	MsgStatementMonthInvalid = "Statement month must be in YYYY-MM format."
)

// Month log
const (
	MsgSalarySetFormat         = "Salary for %s set to %s."
	MsgExpenseAdded            = "Expense added and bank debit logged."
	MsgExpenseBankFailedFormat = "Bank transaction failed: %s. Expense creation was rolled back."
	MsgExpenseUpdated          = "Expense updated successfully."
	MsgExpenseAmountChanged    = "Expense amount changed; please review bank log."
	MsgExpenseDateChanged      = "Expense date changed; please review bank log."
	MsgNoUpdateData            = "No update data provided."
	MsgExpenseDeleted          = "Expense deleted and bank credit logged."
	MsgExpenseCreditFailed     = "Expense deleted, but failed to log bank credit: %s"

	ExpenseDebitDescriptionFormat    = "Monthly Expense: %s"
	ExpenseReversalDescriptionFormat = "Reversal for deleted expense: %s"

	// MaxDescriptionLength is in characters, matching varchar(255).
	MaxDescriptionLength = 255
)
