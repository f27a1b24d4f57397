package domain

const (
	RequesterIdCtxKey    = "pr-requesterId"
	RequesterEmailCtxKey = "pr-requesterEmail"
	OrganizationCtxKey   = "pr-organizationId"
)

const (
	RequesterIdHeader    = "pr-requester-id"
	RequesterEmailHeader = "pr-requester-email"
	OrganizationHeader   = "pr-organization-id"
)
