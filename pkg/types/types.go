package types

// UserAgent is sent verbatim on every request; the server keys SDK detection off it.
const UserAgent = "H-RUST-SDK-1.0.0"

const (
	HeaderAppID     = "HO-APP-ID"
	HeaderNonce     = "HO-NONCE"
	HeaderTimestamp = "HO-TIMESTAMP"
	HeaderSignature = "HO-SIGNATURE"
)

// Envelope is the on-wire wrapper used in both directions.
//
// Outgoing, Data holds the JSON-encoded request body as a string (the body is encoded
// twice). Incoming, Data holds the hex-encoded AES-256-CBC ciphertext of the result.
type Envelope struct {
	Data string `json:"data"`
}

// EmptyBody is the payload sent when a call carries no body.
const EmptyBody = "{}"
