// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "time"

// SetClock replaces the token clock for tests.
func (service *TokenService) SetClock(now func() time.Time) {
	service.now = now
}
