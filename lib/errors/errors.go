package errors

var (
	// governance ledger
	InvalidInput          = NewError(100, "required input is empty or malformed")
	ProposalNotFound      = NewError(101, "proposal does not exist")
	ProposalInactive      = NewError(102, "proposal is not active")
	ProposalAlreadyClosed = NewError(103, "proposal is already closed")
	DuplicateVote         = NewError(104, "already voted on this proposal")
	Unauthorized          = NewError(105, "caller is not the administrator")
	AdministratorNotFound = NewError(106, "administrator is not set")
	ProposalAlreadyExists = NewError(107, "proposal already exists")

	// operation envelope
	InvalidOperation            = NewError(120, "operation is invalid")
	UnknownOperationType        = NewError(121, "operation type is unknown")
	TypeOperationBodyNotMatched = NewError(122, "operation type and body do not match")
	HashDoesNotMatch            = NewError(123, "hash does not match")
	SignatureVerificationFailed = NewError(124, "signature verification failed")
	InvalidMessageVersion       = NewError(125, "message version is not correct")
	MessageHasIncorrectTime     = NewError(126, "message time is not in the acceptable range")
	BadPublicAddress            = NewError(127, "failed to parse public address")

	// storage
	StorageRecordDoesNotExist  = NewError(140, "record does not exist in storage")
	StorageRecordAlreadyExists = NewError(141, "record already exists in storage")
	StorageCoreError           = NewError(142, "storage core error")
	InvalidStorageConfig       = NewError(143, "storage config is invalid")

	// http
	InvalidQueryString      = NewError(160, "found invalid query string")
	BadRequestParameter     = NewError(161, "found invalid request parameter")
	PageQueryLimitMaxExceed = NewError(162, "limit exceeds the maximum allowed")
	HTTPProblem             = NewError(163, "http request problem occurred")
	ContentTypeNotJSON      = NewError(164, "content type must be 'application/json'")
	HTTPRouterNotFound      = NewError(165, "http router does not exist")

	NotImplemented = NewError(180, "not implemented")
)
