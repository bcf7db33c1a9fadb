package providers

import "time"

// shutdownTimeout bounds how long any provider waits during graceful shutdown.
const shutdownTimeout = 30 * time.Second
