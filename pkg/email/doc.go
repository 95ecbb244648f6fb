// Package email delivers the email channel.
//
// EmailSender abstracts the provider: PostmarkClient sends through Postmark's
// transactional API and DevSender writes each message to disk as an HTML file
// plus a JSON metadata file. Transport adapts an EmailSender to the
// dispatcher's email transport contract:
//
//	sender, err := email.NewPostmarkClient(cfg)
//	if err != nil {
//	    return err
//	}
//	transport := email.NewTransport(sender, email.WithTag("notification"))
//
// A message rejected by the provider (Postmark ErrorCode > 0) is reported as
// not delivered rather than as an error.
package email
