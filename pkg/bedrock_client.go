package pkg

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrock"
	bedrocktypes "github.com/aws/aws-sdk-go-v2/service/bedrock/types"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	runtimetypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/praveenc/chatnexus/models"
)

// ListInferenceProfilesAPI is the slice of the Bedrock control plane
// the client depends on
type ListInferenceProfilesAPI interface {
	ListInferenceProfiles(ctx context.Context, params *bedrock.ListInferenceProfilesInput, optFns ...func(*bedrock.Options)) (*bedrock.ListInferenceProfilesOutput, error)
}

// BedrockClient wraps the Bedrock control plane (model listing) and
// runtime (streaming inference) clients
type BedrockClient struct {
	region  string
	control ListInferenceProfilesAPI
	runtime *bedrockruntime.Client
}

// NewBedrockClient builds a client for the given region. Explicit
// credentials from the environment take precedence; otherwise the
// default AWS credential chain (profiles, IAM roles, IMDS) applies.
// Credential resolution itself is lazy, so construction succeeds even
// when no credentials are configured yet.
func NewBedrockClient(ctx context.Context, region string) (*BedrockClient, error) {
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY"); id != "" && secret != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(id, secret, os.Getenv("AWS_SESSION_TOKEN")),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}

	return &BedrockClient{
		region:  region,
		control: bedrock.NewFromConfig(cfg),
		runtime: bedrockruntime.NewFromConfig(cfg),
	}, nil
}

// Region returns the region the client was built with
func (c *BedrockClient) Region() string {
	return c.region
}

// ListInferenceProfiles pages through all system-defined inference
// profiles, following the continuation token until none remains
func (c *BedrockClient) ListInferenceProfiles(ctx context.Context) ([]bedrocktypes.InferenceProfileSummary, error) {
	var profiles []bedrocktypes.InferenceProfileSummary
	var nextToken *string

	for {
		resp, err := c.control.ListInferenceProfiles(ctx, &bedrock.ListInferenceProfilesInput{
			MaxResults: aws.Int32(100),
			TypeEquals: bedrocktypes.InferenceProfileTypeSystemDefined,
			NextToken:  nextToken,
		})
		if err != nil {
			return nil, err
		}

		profiles = append(profiles, resp.InferenceProfileSummaries...)
		if resp.NextToken == nil {
			break
		}
		nextToken = resp.NextToken
	}

	return profiles, nil
}

// Probe performs a minimal authenticated listing call, used by the
// health checker to validate credentials and permissions
func (c *BedrockClient) Probe(ctx context.Context) error {
	_, err := c.control.ListInferenceProfiles(ctx, &bedrock.ListInferenceProfilesInput{
		MaxResults: aws.Int32(1),
		TypeEquals: bedrocktypes.InferenceProfileTypeSystemDefined,
	})
	return err
}

// StreamChat implements the dispatcher's adapter contract on top of the
// Converse streaming API
func (c *BedrockClient) StreamChat(ctx context.Context, req models.ChatRequest, emit func(models.Part) error) error {
	system := []runtimetypes.SystemContentBlock{
		&runtimetypes.SystemContentBlockMemberText{Value: req.System},
	}

	var messages []runtimetypes.Message
	for _, msg := range req.Messages {
		text := msg.Parts.PromptText()
		if text == "" {
			continue
		}

		// Converse keeps system text out of the message list
		if msg.Role == "system" {
			system = append(system, &runtimetypes.SystemContentBlockMemberText{Value: text})
			continue
		}

		role := runtimetypes.ConversationRoleUser
		if msg.Role == "assistant" {
			role = runtimetypes.ConversationRoleAssistant
		}
		messages = append(messages, runtimetypes.Message{
			Role: role,
			Content: []runtimetypes.ContentBlock{
				&runtimetypes.ContentBlockMemberText{Value: text},
			},
		})
	}

	out, err := c.runtime.ConverseStream(ctx, &bedrockruntime.ConverseStreamInput{
		ModelId:  aws.String(req.Model),
		System:   system,
		Messages: messages,
		InferenceConfig: &runtimetypes.InferenceConfiguration{
			Temperature: aws.Float32(float32(req.Temperature)),
			MaxTokens:   aws.Int32(int32(req.MaxTokens)),
		},
	})
	if err != nil {
		return err
	}

	stream := out.GetStream()
	defer stream.Close()

	for event := range stream.Events() {
		switch ev := event.(type) {
		case *runtimetypes.ConverseStreamOutputMemberContentBlockDelta:
			switch delta := ev.Value.Delta.(type) {
			case *runtimetypes.ContentBlockDeltaMemberText:
				if delta.Value != "" {
					if err := emit(models.Part{Type: models.PartText, Text: delta.Value}); err != nil {
						return err
					}
				}
			case *runtimetypes.ContentBlockDeltaMemberReasoningContent:
				if rd, ok := delta.Value.(*runtimetypes.ReasoningContentBlockDeltaMemberText); ok && rd.Value != "" {
					if err := emit(models.Part{Type: models.PartReasoning, Text: rd.Value}); err != nil {
						return err
					}
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return fmt.Errorf("error reading stream: %v", err)
	}

	return nil
}
