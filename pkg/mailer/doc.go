// Package mailer is the delivery core of the mail-merge engine: a uniform
// Channel contract over structurally different transports and a Dispatcher
// that drives a whole recipient table through one channel.
//
// # Channels
//
// A Channel delivers a single rendered message. Concrete channels live in
// subpackages: smtp (password-authenticated STARTTLS), graph (Microsoft
// Graph sendMail), gmail (Gmail API raw MIME), and mailapp (local
// mail-client drafts). Channels whose Sender() is non-empty transmit on
// behalf of an authenticated address; draft-style channels return an empty
// sender and test runs are addressed to the row's recipient instead.
//
// # Dispatching
//
// SendAll iterates rows in table order, skipping rows whose recipient fails
// validation and aborting on the first transport error. SendTest resolves
// one row (the index wraps modulo the row count) and sends a single
// message. Results report {Total, Sent, Skipped}; an aborted batch
// surfaces only the error — partial counts are not reported, and retrying
// rebuilds the batch from the start.
package mailer
