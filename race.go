// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package ringmpsc

// RaceEnabled is true when the race detector is active.
// Used by tests to skip concurrency stress tests whose timing-dependent
// backoff assertions are not meaningful under the race detector's
// heavyweight instrumentation.
const RaceEnabled = true
