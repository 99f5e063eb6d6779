package auth

// Privilege names checked by the governance aggregate. One privilege per
// distinct maker or checker action.
const (
	PrivViewParticipant    = "VIEW_PARTICIPANT"
	PrivCreateParticipant  = "CREATE_PARTICIPANT"
	PrivApproveParticipant = "APPROVE_PARTICIPANT"
	PrivEnableParticipant  = "ENABLE_PARTICIPANT"
	PrivDisableParticipant = "DISABLE_PARTICIPANT"

	PrivManageEndpoints = "MANAGE_ENDPOINTS"

	PrivCreateAccountChangeRequest  = "CREATE_PARTICIPANT_ACCOUNT_CHANGE_REQUEST"
	PrivApproveAccountChangeRequest = "APPROVE_PARTICIPANT_ACCOUNT_CHANGE_REQUEST"

	PrivCreateSourceIPChangeRequest  = "CREATE_PARTICIPANT_SOURCE_IP_CHANGE_REQUEST"
	PrivApproveSourceIPChangeRequest = "APPROVE_PARTICIPANT_SOURCE_IP_CHANGE_REQUEST"

	PrivCreateContactInfoChangeRequest  = "CREATE_PARTICIPANT_CONTACT_INFO_CHANGE_REQUEST"
	PrivApproveContactInfoChangeRequest = "APPROVE_PARTICIPANT_CONTACT_INFO_CHANGE_REQUEST"

	PrivCreateNdcChangeRequest  = "CREATE_NDC_CHANGE_REQUEST"
	PrivApproveNdcChangeRequest = "APPROVE_NDC_CHANGE_REQUEST"

	PrivCreateFundsDeposit     = "CREATE_FUNDS_DEPOSIT"
	PrivApproveFundsDeposit    = "APPROVE_FUNDS_DEPOSIT"
	PrivCreateFundsWithdrawal  = "CREATE_FUNDS_WITHDRAWAL"
	PrivApproveFundsWithdrawal = "APPROVE_FUNDS_WITHDRAWAL"
)
