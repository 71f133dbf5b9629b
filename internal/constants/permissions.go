package constants

const (
	ViewData            = "view_data"
	CreateDistribution  = "create_distribution"
	SubmitDistribution  = "submit_distribution"
	ApproveDistribution = "approve_distribution"
	DeclareDistribution = "declare_distribution"
	DeleteDistribution  = "delete_distribution"
	ManagePayouts       = "manage_payouts"
	RunReconciliation   = "run_reconciliation"
)
