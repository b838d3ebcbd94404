// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq

import "code.hybscloud.com/atomix"

// Serial identifies one queue instance.
// Every handle derived from the same New call reports the same serial.
type Serial = uint32

// queues counts constructed queues.
var queues atomix.Uint32

func nextSerial() Serial {
	return queues.Add(1)
}
