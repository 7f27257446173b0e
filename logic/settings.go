package logic

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// MaskMarker is the rune masked secret values carry; a submitted value
// containing it means "unchanged, skip"
const MaskMarker = "•"

const maskedValue = "••••••••"

// SettingsView reports presence of each secret (masked) and the literal
// value of non-secret configuration
type SettingsView struct {
	AWSAccessKeyID     string `json:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `json:"AWS_SECRET_ACCESS_KEY"`
	AWSRegion          string `json:"AWS_REGION"`
	TavilyAPIKey       string `json:"TAVILY_API_KEY"`
	HasAWSCredentials  bool   `json:"hasAwsCredentials"`
	HasTavilyKey       bool   `json:"hasTavilyKey"`
	CredentialsSource  string `json:"credentialsSource"`
}

// SettingsInput is the merge payload of a settings write
type SettingsInput struct {
	AWSAccessKeyID     string `json:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `json:"AWS_SECRET_ACCESS_KEY"`
	AWSRegion          string `json:"AWS_REGION"`
	TavilyAPIKey       string `json:"TAVILY_API_KEY"`
}

// SettingsLogic reads and writes the env-file backed credential
// configuration. The file is loaded into the process environment at
// startup; saved changes take effect on the next start.
type SettingsLogic struct {
	envFile string
}

func NewSettingsLogic(envFile string) *SettingsLogic {
	return &SettingsLogic{envFile: envFile}
}

// Read reports the current environment configuration, secrets masked
func (l *SettingsLogic) Read() SettingsView {
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	tavilyKey := os.Getenv("TAVILY_API_KEY")

	view := SettingsView{
		AWSRegion:         os.Getenv("AWS_REGION"),
		HasAWSCredentials: accessKey != "" && secretKey != "",
		HasTavilyKey:      tavilyKey != "",
		CredentialsSource: "not-configured",
	}
	if accessKey != "" {
		view.AWSAccessKeyID = maskedValue
		view.CredentialsSource = "environment"
	}
	if secretKey != "" {
		view.AWSSecretAccessKey = maskedValue
	}
	if tavilyKey != "" {
		view.TavilyAPIKey = maskedValue
	}
	return view
}

// Save merges the supplied values into the persisted configuration and
// regenerates the env file. Masked values leave the stored value
// untouched; absent keys keep their prior value or an empty default.
func (l *SettingsLogic) Save(input SettingsInput) error {
	existing, err := godotenv.Read(l.envFile)
	if err != nil {
		// no file yet, start from an empty configuration
		existing = map[string]string{}
	}

	setUnlessMasked(existing, "AWS_ACCESS_KEY_ID", input.AWSAccessKeyID)
	setUnlessMasked(existing, "AWS_SECRET_ACCESS_KEY", input.AWSSecretAccessKey)
	setUnlessMasked(existing, "TAVILY_API_KEY", input.TavilyAPIKey)
	if input.AWSRegion != "" {
		existing["AWS_REGION"] = input.AWSRegion
	}

	region := existing["AWS_REGION"]
	if region == "" {
		region = "us-east-1"
	}

	content := strings.Join([]string{
		"# AWS Bedrock Configuration",
		"# Note: Credentials can also be inferred from system environment (IAM roles, profiles, etc.)",
		fmt.Sprintf("AWS_ACCESS_KEY_ID=%s", existing["AWS_ACCESS_KEY_ID"]),
		fmt.Sprintf("AWS_SECRET_ACCESS_KEY=%s", existing["AWS_SECRET_ACCESS_KEY"]),
		fmt.Sprintf("AWS_REGION=%s", region),
		"",
		"# Tavily Web Search",
		fmt.Sprintf("TAVILY_API_KEY=%s", existing["TAVILY_API_KEY"]),
		"",
	}, "\n")

	return os.WriteFile(l.envFile, []byte(content), 0o600)
}

func setUnlessMasked(env map[string]string, key, value string) {
	if value == "" || strings.Contains(value, MaskMarker) {
		return
	}
	env[key] = value
}
