/* Copyright (c) 2025 Tenesys sp. z o.o.
 * SPDX-License-Identifier: BSD-3-Clause */
package ses

import (
    "context"

    "github.com/aws/aws-sdk-go-v2/aws"
    awsses "github.com/aws/aws-sdk-go-v2/service/ses"
    "github.com/aws/aws-sdk-go-v2/service/ses/types"
    "github.com/rs/zerolog"
)

type settings interface {
    Require(ctx context.Context, key string) (string, error)
}

// Mailer delivers HTML reports through AWS SES.
type Mailer struct {
    ses      *awsses.Client
    settings settings
    log      zerolog.Logger
}

func NewMailer(awsCfg aws.Config, st settings, log zerolog.Logger) *Mailer {
    return &Mailer{ses: awsses.NewFromConfig(awsCfg), settings: st, log: log}
}

func (m *Mailer) Send(ctx context.Context, subject, htmlBody string, to []string) error {
    from, err := m.settings.Require(ctx, "notification_from_email")
    if err != nil { return err }
    _, err = m.ses.SendEmail(ctx, &awsses.SendEmailInput{
        Source:      aws.String(from),
        Destination: &types.Destination{ToAddresses: to},
        Message: &types.Message{
            Subject: &types.Content{Data: aws.String(subject)},
            Body:    &types.Body{Html: &types.Content{Data: aws.String(htmlBody)}},
        },
    })
    if err != nil { return err }
    m.log.Info().Str("subject", subject).Strs("to", to).Msg("email sent")
    return nil
}
