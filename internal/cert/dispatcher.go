package cert

import (
	"context"
	"fmt"
	"log/slog"
)

// Attachment is a binary mail attachment.
type Attachment struct {
	Filename string
	Content  []byte
	MIMEType string
}

// MailSender abstracts the mail collaborator.
type MailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string, attachment Attachment) error
}

const certificateBodyFormat = `Dear Educator,<br><br>
Greetings of the day!!<br><br>
Hope you are doing well.<br><br>
This email is to acknowledge your participation in the <b>%s</b> Session held on <b>%s</b>, organised by %s. Please find your Participation Certificate attached.<br><br>
We organise sessions focusing on SQAAF every month.<br><br>
Luneblaze is also helping 100+ schools in their SQAAF Journey by assisting in documentation, implementation and self-assessment.<br><br>
We would like to discuss the possibility of helping your esteemed institution in the SQAAF Implementation journey.<br><br>
For more details reach out to us at: <b>+91 7533051785</b><br><br>
Looking forward to the opportunity to support your accreditation needs.<br><br>
Best Regards,
Team Luneblaze`

// Dispatcher mails the rendered certificate to the attendee.
type Dispatcher struct {
	sender MailSender
	logger *slog.Logger
}

func NewDispatcher(sender MailSender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, logger: logger}
}

// Deliver composes the fixed subject and body and sends the PDF as an
// attachment named "<name>_<certificateNumber>.pdf".
func (d *Dispatcher) Deliver(ctx context.Context, attendee *AttendeeRecord, params JobParameters, pdf []byte) error {
	subject := fmt.Sprintf("Luneblaze certificate for the session on %s", params.WebinarName)
	body := fmt.Sprintf(certificateBodyFormat,
		params.WebinarName,
		FormatSessionDate(params.SessionDate),
		params.OrganizedBy,
	)

	attachment := Attachment{
		Filename: fmt.Sprintf("%s_%s.pdf", attendee.Name, attendee.CertificateNumber),
		Content:  pdf,
		MIMEType: "application/pdf",
	}

	if err := d.sender.Send(ctx, attendee.Email, subject, body, attachment); err != nil {
		return &DeliveryError{Attendee: attendee.Name, Err: err}
	}

	d.logger.Info("Certificate delivered",
		slog.String("attendee", attendee.Name),
		slog.String("email", attendee.Email),
		slog.String("attachment", attachment.Filename),
	)
	return nil
}
