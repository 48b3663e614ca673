package config

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// LoadSSM overlays every parameter stored under parameterPath in AWS SSM
// Parameter Store onto c. Only the last path element is used as the key, so
// /portfolio/prod/SMTP_PASSWORD becomes SMTP_PASSWORD.
func LoadSSM(ctx context.Context, c map[string]string, parameterPath string) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	return loadParameters(ctx, ssm.NewFromConfig(awsCfg), c, parameterPath)
}

func loadParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, c map[string]string, parameterPath string) error {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(parameterPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("get parameters under %s: %w", parameterPath, err)
		}
		for _, parameter := range page.Parameters {
			c[path.Base(aws.ToString(parameter.Name))] = aws.ToString(parameter.Value)
		}
	}
	return nil
}
