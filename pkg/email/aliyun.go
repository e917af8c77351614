package email

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	openapiutil "github.com/alibabacloud-go/openapi-util/service"
	util "github.com/alibabacloud-go/tea-utils/v2/service"
	"github.com/alibabacloud-go/tea/tea"
	credential "github.com/aliyun/credentials-go/credentials"
	"go.uber.org/zap"

	"IAmFine/pkg/logger"
)

type AliyunClient struct {
	client      *openapi.Client
	accountName string
	fromAlias   string
}

// NewAliyunClient builds a DirectMail client. accountName is the verified
// sender address configured in the DirectMail console.
func NewAliyunClient(accountName, fromAlias string) (*AliyunClient, error) {
	if accountName == "" {
		return nil, fmt.Errorf("email account name is required")
	}

	cred, err := credential.NewCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create aliyun credential: %w", err)
	}

	client, err := openapi.NewClient(&openapi.Config{
		Credential: cred,
		Endpoint:   tea.String("dm.aliyuncs.com"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create aliyun client: %w", err)
	}

	return &AliyunClient{
		client:      client,
		accountName: accountName,
		fromAlias:   fromAlias,
	}, nil
}

func (c *AliyunClient) createApiInfo(action string) *openapi.Params {
	return &openapi.Params{
		Action:      tea.String(action),
		Version:     tea.String("2015-11-23"),
		Protocol:    tea.String("HTTPS"),
		Method:      tea.String("POST"),
		AuthType:    tea.String("AK"),
		Style:       tea.String("RPC"),
		Pathname:    tea.String("/"),
		ReqBodyType: tea.String("json"),
		BodyType:    tea.String("json"),
	}
}

// runtimeOptions maps the caller's deadline onto the SDK transport timeouts.
// CallApi never consults ctx on its own, so without this the send could
// outlive the escalator's timeout.
func runtimeOptions(ctx context.Context) *util.RuntimeOptions {
	opts := &util.RuntimeOptions{}
	if deadline, ok := ctx.Deadline(); ok {
		ms := int(time.Until(deadline).Milliseconds())
		if ms < 1 {
			ms = 1
		}
		opts.ConnectTimeout = tea.Int(ms)
		opts.ReadTimeout = tea.Int(ms)
	}
	return opts
}

func (c *AliyunClient) SendSingle(ctx context.Context, to, subject, htmlBody string) (*SendResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("email send canceled: %w", err)
	}
	if to == "" {
		return nil, fmt.Errorf("recipient address is required")
	}

	params := c.createApiInfo("SingleSendMail")

	queries := map[string]interface{}{
		"AccountName":    tea.String(c.accountName),
		"AddressType":    tea.Int(1),
		"ReplyToAddress": tea.Bool(false),
		"ToAddress":      tea.String(to),
		"FromAlias":      tea.String(c.fromAlias),
		"Subject":        tea.String(subject),
		"HtmlBody":       tea.String(htmlBody),
	}

	runtime := runtimeOptions(ctx)
	request := &openapi.OpenApiRequest{
		Query: openapiutil.Query(queries),
	}

	resp, err := c.client.CallApi(params, request, runtime)
	if err != nil {
		logger.Logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	if statusCode, ok := resp["statusCode"].(int); ok && statusCode != 200 {
		logger.Logger.Error("Email API returned error",
			zap.Int("statusCode", statusCode),
			zap.Any("body", resp["body"]),
		)
		return nil, fmt.Errorf("email API error: statusCode=%d", statusCode)
	}

	response := &SendResponse{Provider: "aliyun"}

	if resp["body"] != nil {
		bodyBytes, _ := json.Marshal(resp["body"])
		var bodyMap map[string]interface{}
		if err := json.Unmarshal(bodyBytes, &bodyMap); err == nil {
			if envID, ok := bodyMap["EnvId"].(string); ok {
				response.EnvID = envID
			}
			if requestID, ok := bodyMap["RequestId"].(string); ok {
				response.RequestID = requestID
			}
		}
	}

	logger.Logger.Debug("Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("env_id", response.EnvID),
	)

	return response, nil
}
