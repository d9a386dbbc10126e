package findings

// DemoFindings returns a small set of representative raw Access Analyzer
// records. The CLI's --demo mode and tests use them; nothing here touches
// the network.
func DemoFindings() []map[string]any {
	return []map[string]any{
		{
			"id":                   "finding-001",
			"resourceType":         "AWS::S3::Bucket",
			"resourceOwnerAccount": "123456789012",
			"resource":             "arn:aws:s3:::public-data-bucket",
			"status":               "ACTIVE",
			"principal":            map[string]any{"AWS": "*"},
			"action":               []any{"s3:GetObject", "s3:ListBucket"},
			"isPublic":             true,
			"createdAt":            "2026-07-01T10:00:00Z",
			"updatedAt":            "2026-08-20T10:00:00Z",
		},
		{
			"id":                   "finding-002",
			"resourceType":         "AWS::IAM::Role",
			"resourceOwnerAccount": "123456789012",
			"resource":             "arn:aws:iam::123456789012:role/CrossAccountAdminRole",
			"status":               "ACTIVE",
			"principal":            map[string]any{"AWS": "arn:aws:iam::999988887777:root"},
			"action":               []any{"sts:AssumeRole"},
			"condition":            map[string]any{"sts:ExternalId": "partner-xyz"},
			"isPublic":             false,
			"createdAt":            "2026-06-15T08:30:00Z",
			"updatedAt":            "2026-08-19T08:30:00Z",
		},
		{
			"id":                   "finding-003",
			"resourceType":         "AWS::SecretsManager::Secret",
			"resourceOwnerAccount": "123456789012",
			"resource":             "arn:aws:secretsmanager:us-east-1:123456789012:secret:prod/db-credentials",
			"status":               "ACTIVE",
			"principal":            map[string]any{"AWS": "arn:aws:iam::444455556666:role/ExternalReader"},
			"action":               []any{"secretsmanager:GetSecretValue"},
			"isPublic":             false,
			"createdAt":            "2026-08-01T12:00:00Z",
			"updatedAt":            "2026-08-21T12:00:00Z",
		},
		{
			"id":                   "finding-004",
			"resourceType":         "AWS::Lambda::Function",
			"resourceOwnerAccount": "123456789012",
			"resource":             "arn:aws:lambda:us-west-2:123456789012:function:image-resizer",
			"status":               "ACTIVE",
			"principal":            map[string]any{"Service": "s3.amazonaws.com"},
			"action":               []any{"lambda:InvokeFunction"},
			"condition":            map[string]any{"aws:SourceAccount": "123456789012"},
			"isPublic":             false,
			"createdAt":            "2026-05-10T09:00:00Z",
			"updatedAt":            "2026-08-18T09:00:00Z",
		},
	}
}
