package model

import "time"

const DefaultReadTimeout = 5 * time.Second
const DefaultWorkerCount = 8
const DefaultRetryAttempts = 3
const DefaultRetryInterval = 200 * time.Millisecond
const DefaultReadyThreshold = "10000"

const HeaderContentType = "Content-Type"

const KeyLoggerError = "error"

type ContextKey string

const KeyContextLogger ContextKey = "logger"
const KeyContextRequestID ContextKey = "requestID"
