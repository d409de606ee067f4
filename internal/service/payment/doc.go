// Package payment provisions upgrade payment sessions against the payment
// provider. It is deliberately narrow: one operation that creates a payment
// intent with a fixed server-side amount and returns the opaque client
// secret the front-end needs to confirm the charge. No checkout UI, no
// webhooks, no refunds.
package payment
