package service

import "context"

var testCtx = context.Background()
