// Package api contains the HTTP handlers of the session engine: topic
// submission and the session lifecycle, quiz answers, the entitlement
// account surface, and payment-session provisioning. Handlers translate
// between JSON request/response shapes and the session, ledger and payment
// services; gate rejections are control-flow responses, not errors.
package api
