// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
)

// NotificationType represents the type of a notification message.
type NotificationType int

// NotificationCallback is used for a caller to provide a callback for
// notifications about various chain events.
type NotificationCallback func(*Notification)

// Constants for the type of a notification message.
const (
	// NTBlockConnected indicates the associated block was appended to the
	// chain.
	NTBlockConnected NotificationType = iota

	// NTTransactionAccepted indicates the associated transaction was
	// accepted into the pending transaction pool.
	NTTransactionAccepted
)

// notificationTypeStrings is a map of notification types back to their constant
// names for pretty printing.
var notificationTypeStrings = map[NotificationType]string{
	NTBlockConnected:      "NTBlockConnected",
	NTTransactionAccepted: "NTTransactionAccepted",
}

// String returns the NotificationType in human-readable form.
func (n NotificationType) String() string {
	if s, ok := notificationTypeStrings[n]; ok {
		return s
	}
	return fmt.Sprintf("Unknown Notification Type (%d)", int(n))
}

// Notification defines notification that is sent to the caller via the
// callback function provided during the call to Subscribe and consists of a
// notification type as well as associated data that depends on the type as
// follows:
//   - NTBlockConnected:      *wire.Block
//   - NTTransactionAccepted: *wire.Transaction
type Notification struct {
	Type NotificationType
	Data interface{}
}

// Subscribe to block chain notifications.  Registers a callback to be
// executed when various events take place.  See the documentation on
// Notification and NotificationType for details on the types and contents of
// notifications.  Callbacks are invoked synchronously and must not block.
func (b *BlockChain) Subscribe(callback NotificationCallback) {
	b.notificationsLock.Lock()
	b.notifications = append(b.notifications, callback)
	b.notificationsLock.Unlock()
}

// sendNotification sends a notification with the passed type and data if the
// caller requested notifications by providing a callback function in the call
// to Subscribe.
func (b *BlockChain) sendNotification(typ NotificationType, data interface{}) {
	// Generate and send the notification.
	n := Notification{Type: typ, Data: data}
	b.notificationsLock.RLock()
	for _, callback := range b.notifications {
		callback(&n)
	}
	b.notificationsLock.RUnlock()
}
