package ruleset

import "github.com/thirukguru/iam-entitlements/model"

// Default returns the built-in ruleset used when no config file overrides it.
func Default() *Ruleset {
	return &Ruleset{
		SensitiveActions:   defaultSensitiveActions(),
		AdminActions:       defaultAdminActions(),
		DataAccessActions:  defaultDataAccessActions(),
		KnownServices:      defaultKnownServices(),
		EscalationPatterns: defaultEscalationPatterns(),
		SeverityWeights: map[model.Severity]int{
			model.SeverityCritical: 40,
			model.SeverityHigh:     25,
			model.SeverityMedium:   10,
			model.SeverityLow:      5,
			model.SeverityInfo:     1,
		},
		PenaltyWeights: map[string]int{
			model.RuleWildcardAction:        60,
			model.RuleServiceWildcardAction: 60,
			model.RuleWildcardResource:      30,
			model.RuleWildcardPrincipal:     30,
			model.RuleExcessiveWildcards:    10,
		},
		ResourceBaselines: map[string]int{
			"AWS::S3::Bucket":             30,
			"AWS::IAM::Role":              40,
			"AWS::KMS::Key":               35,
			"AWS::Lambda::Function":       25,
			"AWS::Lambda::LayerVersion":   20,
			"AWS::SQS::Queue":             20,
			"AWS::SNS::Topic":             20,
			"AWS::SecretsManager::Secret": 45,
			"AWS::EFS::FileSystem":        30,
			"AWS::EC2::Snapshot":          35,
			"AWS::ECR::Repository":        30,
			"AWS::RDS::DBSnapshot":        40,
			"AWS::DynamoDB::Table":        30,
			"default":                     25,
		},
		FindingWeights: map[string]int{
			"public_access":       40,
			"admin_permissions":   30,
			"destructive_actions": 25,
			"cross_account":       20,
			"data_access":         15,
			"no_condition":        10,
		},
		WildcardRatioLimit: 0.3,
		FieldMappings:      defaultFieldMappings(),
	}
}

func defaultSensitiveActions() []string {
	return []string{
		"iam:CreateAccessKey",
		"iam:CreateLoginProfile",
		"iam:UpdateLoginProfile",
		"iam:AttachUserPolicy",
		"iam:AttachGroupPolicy",
		"iam:AttachRolePolicy",
		"iam:PutUserPolicy",
		"iam:PutGroupPolicy",
		"iam:PutRolePolicy",
		"iam:AddUserToGroup",
		"iam:UpdateAssumeRolePolicy",
		"iam:PassRole",
		"iam:CreatePolicyVersion",
		"iam:SetDefaultPolicyVersion",
		"iam:DeleteUserPolicy",
		"iam:DeleteRolePolicy",
		"lambda:CreateFunction",
		"lambda:UpdateFunctionCode",
		"ec2:RunInstances",
		"sts:AssumeRole",
		"kms:ScheduleKeyDeletion",
		"s3:DeleteBucket",
		"secretsmanager:DeleteSecret",
	}
}

func defaultAdminActions() []string {
	return []string{
		"*",
		"iam:*",
		"s3:*",
		"ec2:*",
		"rds:*",
		"lambda:*",
		"kms:*",
	}
}

func defaultDataAccessActions() []string {
	return []string{
		"s3:GetObject",
		"s3:PutObject",
		"dynamodb:GetItem",
		"dynamodb:BatchGetItem",
		"dynamodb:Query",
		"dynamodb:Scan",
		"secretsmanager:GetSecretValue",
		"kms:Decrypt",
		"ssm:GetParameter",
		"ssm:GetParameters",
		"rds:DownloadDBLogFilePortion",
	}
}

func defaultKnownServices() []string {
	return []string{
		"a4b", "access-analyzer", "acm", "apigateway", "application-autoscaling",
		"athena", "autoscaling", "backup", "batch", "bedrock", "cloudformation",
		"cloudfront", "cloudtrail", "cloudwatch", "codebuild", "codecommit",
		"codedeploy", "codepipeline", "cognito-identity", "cognito-idp", "config",
		"dynamodb", "ec2", "ecr", "ecs", "efs", "eks", "elasticache",
		"elasticfilesystem", "elasticloadbalancing", "es", "events", "execute-api",
		"firehose", "glacier", "glue", "guardduty", "iam", "inspector2", "kinesis",
		"kms", "lambda", "logs", "organizations", "rds", "redshift", "route53",
		"s3", "sagemaker", "secretsmanager", "securityhub", "ses", "shield",
		"sns", "sqs", "ssm", "states", "sts", "support", "tag", "waf", "wafv2",
		"xray",
	}
}

func defaultEscalationPatterns() []EscalationPattern {
	return []EscalationPattern{
		{
			Name:           "Create access key for another user",
			Description:    "iam:CreateAccessKey allows minting credentials for any user, including administrators.",
			Actions:        []string{"iam:CreateAccessKey"},
			Recommendation: "Restrict iam:CreateAccessKey to the caller's own user via a resource ARN condition.",
		},
		{
			Name:           "Create login profile",
			Description:    "iam:CreateLoginProfile sets a console password on users that have none.",
			Actions:        []string{"iam:CreateLoginProfile"},
			Recommendation: "Limit iam:CreateLoginProfile to dedicated user-provisioning roles.",
		},
		{
			Name:           "Reset login profile",
			Description:    "iam:UpdateLoginProfile resets any user's console password.",
			Actions:        []string{"iam:UpdateLoginProfile"},
			Recommendation: "Limit iam:UpdateLoginProfile to help-desk break-glass roles with MFA conditions.",
		},
		{
			Name:           "Attach policy to user",
			Description:    "iam:AttachUserPolicy can attach AdministratorAccess to the caller's own user.",
			Actions:        []string{"iam:AttachUserPolicy"},
			Recommendation: "Scope iam:AttachUserPolicy with a permissions boundary or explicit policy ARN list.",
		},
		{
			Name:           "Attach policy to group",
			Description:    "iam:AttachGroupPolicy escalates every member of a group the caller belongs to.",
			Actions:        []string{"iam:AttachGroupPolicy"},
			Recommendation: "Scope iam:AttachGroupPolicy to non-privileged groups only.",
		},
		{
			Name:           "Attach policy to assumable role",
			Description:    "iam:AttachRolePolicy plus sts:AssumeRole upgrades a role the caller can assume.",
			Actions:        []string{"iam:AttachRolePolicy", "sts:AssumeRole"},
			Recommendation: "Separate role administration from role assumption across identities.",
		},
		{
			Name:           "Inline policy on user",
			Description:    "iam:PutUserPolicy writes arbitrary inline permissions onto users.",
			Actions:        []string{"iam:PutUserPolicy"},
			Recommendation: "Restrict iam:PutUserPolicy with a permissions boundary.",
		},
		{
			Name:           "Inline policy on group",
			Description:    "iam:PutGroupPolicy writes arbitrary inline permissions onto groups.",
			Actions:        []string{"iam:PutGroupPolicy"},
			Recommendation: "Restrict iam:PutGroupPolicy with a permissions boundary.",
		},
		{
			Name:           "Inline policy on assumable role",
			Description:    "iam:PutRolePolicy plus sts:AssumeRole grants the caller any permission via a role hop.",
			Actions:        []string{"iam:PutRolePolicy", "sts:AssumeRole"},
			Recommendation: "Separate role administration from role assumption across identities.",
		},
		{
			Name:           "Join privileged group",
			Description:    "iam:AddUserToGroup lets the caller join groups that carry elevated policies.",
			Actions:        []string{"iam:AddUserToGroup"},
			Recommendation: "Scope iam:AddUserToGroup to specific non-privileged group ARNs.",
		},
		{
			Name:           "Rewrite role trust policy",
			Description:    "iam:UpdateAssumeRolePolicy plus sts:AssumeRole makes any role assumable by the caller.",
			Actions:        []string{"iam:UpdateAssumeRolePolicy", "sts:AssumeRole"},
			Recommendation: "Restrict trust-policy edits to a dedicated IAM administration pipeline.",
		},
		{
			Name:           "Create policy version",
			Description:    "iam:CreatePolicyVersion rewrites an existing customer managed policy with admin permissions.",
			Actions:        []string{"iam:CreatePolicyVersion"},
			Recommendation: "Restrict policy versioning to IAM administration roles.",
		},
		{
			Name:           "Set default policy version",
			Description:    "iam:SetDefaultPolicyVersion activates a dormant permissive policy version.",
			Actions:        []string{"iam:SetDefaultPolicyVersion"},
			Recommendation: "Restrict policy versioning to IAM administration roles.",
		},
		{
			Name:           "Pass role to EC2",
			Description:    "iam:PassRole plus ec2:RunInstances launches an instance with a privileged instance profile.",
			Actions:        []string{"iam:PassRole", "ec2:RunInstances"},
			Recommendation: "Condition iam:PassRole on iam:PassedToService and an explicit role ARN list.",
		},
		{
			Name:           "Pass role to Lambda",
			Description:    "iam:PassRole plus lambda:CreateFunction runs attacker code under a privileged execution role.",
			Actions:        []string{"iam:PassRole", "lambda:CreateFunction"},
			Recommendation: "Condition iam:PassRole on iam:PassedToService and an explicit role ARN list.",
		},
		{
			Name:           "Overwrite Lambda code",
			Description:    "lambda:UpdateFunctionCode swaps the code of functions that already hold privileged roles.",
			Actions:        []string{"lambda:UpdateFunctionCode"},
			Recommendation: "Restrict code updates to the deployment pipeline's identity.",
		},
	}
}

func defaultFieldMappings() map[string]FieldMapping {
	return map[string]FieldMapping{
		ProviderAccessAnalyzer: {
			SourceID:     "id",
			ResourceType: "resourceType",
			ResourceARN:  "resource",
			AccountID:    "resourceOwnerAccount",
			Principal:    "principal",
			Action:       "action",
			Condition:    "condition",
			IsPublic:     "isPublic",
			Status:       "status",
			CreatedAt:    "createdAt",
			UpdatedAt:    "updatedAt",
		},
		ProviderGCPAssetInventory: {
			SourceID:     "name",
			ResourceType: "assetType",
			ResourceARN:  "resource",
			AccountID:    "project",
			Principal:    "member",
			Action:       "permissions",
			Condition:    "condition",
			IsPublic:     "publiclyAccessible",
			Status:       "state",
			CreatedAt:    "createTime",
			UpdatedAt:    "updateTime",
		},
	}
}
