package findings

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	aatypes "github.com/aws/aws-sdk-go-v2/service/accessanalyzer/types"

	"github.com/thirukguru/iam-entitlements/model"
	"github.com/thirukguru/iam-entitlements/service/ruleset"
)

func TestFromAccessAnalyzer(t *testing.T) {
	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	summary := aatypes.FindingSummary{
		Id:                   aws.String("finding-sdk-1"),
		Resource:             aws.String("arn:aws:s3:::release-artifacts"),
		ResourceType:         aatypes.ResourceTypeAwsS3Bucket,
		ResourceOwnerAccount: aws.String("123456789012"),
		Status:               aatypes.FindingStatusActive,
		IsPublic:             aws.Bool(true),
		Principal:            map[string]string{"AWS": "*"},
		Action:               []string{"s3:GetObject"},
		CreatedAt:            aws.Time(created),
		UpdatedAt:            aws.Time(created.Add(24 * time.Hour)),
	}

	raw := FromAccessAnalyzer(summary)
	if raw["id"] != "finding-sdk-1" || raw["isPublic"] != true {
		t.Fatalf("unexpected raw record: %v", raw)
	}
	if raw["createdAt"] != "2026-08-01T10:00:00Z" {
		t.Errorf("createdAt = %v", raw["createdAt"])
	}

	svc := NewService(ruleset.Default())
	f, err := svc.Normalize(ruleset.ProviderAccessAnalyzer, raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if f.SourceID != "finding-sdk-1" || f.ExposureType != model.ExposureAnonymous {
		t.Errorf("unexpected normalized finding: %+v", f)
	}
	if f.ResourceType != string(aatypes.ResourceTypeAwsS3Bucket) {
		t.Errorf("resource type = %s", f.ResourceType)
	}
}

func TestFromAccessAnalyzerBatch(t *testing.T) {
	summaries := []aatypes.FindingSummary{
		{Id: aws.String("a"), Resource: aws.String("arn:aws:s3:::a"), ResourceType: aatypes.ResourceTypeAwsS3Bucket},
		{Id: aws.String("b"), Resource: aws.String("arn:aws:s3:::b"), ResourceType: aatypes.ResourceTypeAwsS3Bucket},
	}
	raws := FromAccessAnalyzerBatch(summaries)
	if len(raws) != 2 || raws[0]["id"] != "a" || raws[1]["id"] != "b" {
		t.Errorf("unexpected batch conversion: %v", raws)
	}
}
