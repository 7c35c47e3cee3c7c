package lib

// ProtocolVersion is sent in the display hello and checked by the host service.
// Bump it whenever the snapshot or event wire format changes.
const ProtocolVersion int64 = 1
