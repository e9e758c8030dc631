package handler

const (
	jsonKeyError = "error"

	paramID          = "id"
	queryParamExpiry = "exp"
	queryParamSig    = "sig"

	tokenTypeBearer       = "Bearer"
	viewReportPathPrefix  = "/view/reports/"
	reportFilenamePrefix  = "report-"
	reportFilenameSuffix  = ".pdf"
	dispositionAttachment = "attachment"
	dispositionInline     = "inline"
	dispositionFilename   = "filename"
)

const (
	msgContentTypeJSONRequired = "content type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgInvalidCredentials      = "invalid username or password"
	msgGenerateTokenFail       = "failed to generate token"
	msgAccountMisconfigured    = "account is misconfigured"
	msgReportNotFound          = "report not found"
	msgLoadReportFail          = "failed to load report"
	msgCreateViewLinkFail      = "failed to create view link"
	msgViewLinkExpired         = "view link has expired"
)
