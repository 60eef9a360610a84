// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package transport

import (
	"context"

	"github.com/H0llyW00dzZ/pkcs12-transport/src/tlsctx"
)

type verificationKey struct{}

// WithVerification returns a copy of ctx carrying the verification an
// [Adapter] applies to requests made with it.
func WithVerification(ctx context.Context, v tlsctx.Verification) context.Context {
	return context.WithValue(ctx, verificationKey{}, v)
}

// VerificationFrom returns the verification stored in ctx, or
// [tlsctx.VerifyDefault].
func VerificationFrom(ctx context.Context) tlsctx.Verification {
	if v, ok := ctx.Value(verificationKey{}).(tlsctx.Verification); ok {
		return v
	}
	return tlsctx.VerifyDefault
}
