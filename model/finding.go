package model

// ExposureType classifies who can reach a resource according to a finding.
type ExposureType string

const (
	ExposurePublicInternet ExposureType = "PUBLIC_INTERNET"
	ExposureCrossAccount   ExposureType = "CROSS_ACCOUNT"
	ExposureCrossOrg       ExposureType = "CROSS_ORG"
	ExposureServiceAccess  ExposureType = "SERVICE_ACCESS"
	ExposureAnonymous      ExposureType = "ANONYMOUS"
)

// SupportedResourceTypes lists the resource types findings are normalized
// against. Unknown types still normalize, they just score with the default
// baseline.
var SupportedResourceTypes = []string{
	"AWS::S3::Bucket",
	"AWS::IAM::Role",
	"AWS::KMS::Key",
	"AWS::Lambda::Function",
	"AWS::Lambda::LayerVersion",
	"AWS::SQS::Queue",
	"AWS::SNS::Topic",
	"AWS::SecretsManager::Secret",
	"AWS::EFS::FileSystem",
	"AWS::EC2::Snapshot",
	"AWS::ECR::Repository",
	"AWS::RDS::DBSnapshot",
	"AWS::DynamoDB::Table",
}

// NormalizedFinding is the provider-independent view of one raw access
// finding.
type NormalizedFinding struct {
	ID             string       `json:"id"`
	Provider       string       `json:"provider"`
	SourceID       string       `json:"source_id"`
	AccountID      string       `json:"account_id,omitempty"`
	Region         string       `json:"region,omitempty"`
	ResourceType   string       `json:"resource_type"`
	ResourceARN    string       `json:"resource_arn"`
	ResourceName   string       `json:"resource_name,omitempty"`
	ExposureType   ExposureType `json:"exposure_type"`
	Severity       Severity     `json:"severity"`
	SeverityScore  int          `json:"severity_score"`
	Status         string       `json:"status,omitempty"`
	Principal      string       `json:"principal,omitempty"`
	Actions        []string     `json:"actions,omitempty"`
	HasCondition   bool         `json:"has_condition"`
	IsPublic       bool         `json:"is_public"`
	RiskFactors    []string     `json:"risk_factors,omitempty"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Recommendation string       `json:"recommendation,omitempty"`
	FirstObserved  string       `json:"first_observed,omitempty"`
	LastObserved   string       `json:"last_observed,omitempty"`
}

// FindingWarning records one raw record a batch skipped instead of failing.
type FindingWarning struct {
	Index    int    `json:"index"`
	SourceID string `json:"source_id,omitempty"`
	Reason   string `json:"reason"`
}
