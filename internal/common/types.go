package common

// Role identifies the kind of participant referenced by a user id.
// Identity itself is owned by the external auth service.
type Role string

const (
	RoleDoctor          Role = "doctor"
	RolePatient         Role = "patient"
	RoleAdmin           Role = "admin"
	RolePharmacist      Role = "pharmacist"
	RoleCommunityWorker Role = "communityWorker"
	RoleService         Role = "service" // internal domain-event producers
)

// Availability is a doctor-set status; meaningful only for doctors.
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityBusy      Availability = "busy"
	AvailabilityOffline   Availability = "offline"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityBusy, AvailabilityOffline:
		return true
	}
	return false
}

// CallStatus is the lifecycle state of a two-party call.
type CallStatus string

const (
	CallRinging  CallStatus = "ringing"
	CallAccepted CallStatus = "accepted"
	CallRejected CallStatus = "rejected"
	CallEnded    CallStatus = "ended"
	CallMissed   CallStatus = "missed"
)

// Active reports whether the status still admits transitions.
func (s CallStatus) Active() bool {
	return s == CallRinging || s == CallAccepted
}

// AttachmentKind classifies a message attachment by media type.
type AttachmentKind string

const (
	AttachmentImage    AttachmentKind = "image"
	AttachmentVideo    AttachmentKind = "video"
	AttachmentAudio    AttachmentKind = "audio"
	AttachmentDocument AttachmentKind = "document"
	AttachmentOther    AttachmentKind = "other"
)

func (k AttachmentKind) Valid() bool {
	switch k {
	case AttachmentImage, AttachmentVideo, AttachmentAudio, AttachmentDocument, AttachmentOther:
		return true
	}
	return false
}

// NotificationType enumerates the domain events external services raise.
type NotificationType string

const (
	AppointmentApprovedType    NotificationType = "appointment_approved"
	AppointmentRejectedType    NotificationType = "appointment_rejected"
	AppointmentRescheduledType NotificationType = "appointment_rescheduled"
	ConsultationStartedType    NotificationType = "consultation_started"
	ConsultationCompletedType  NotificationType = "consultation_completed"
	PrescriptionCreatedType    NotificationType = "prescription_created"
	MissedCallType             NotificationType = "missed_call"
)

func (t NotificationType) Valid() bool {
	switch t {
	case AppointmentApprovedType, AppointmentRejectedType, AppointmentRescheduledType,
		ConsultationStartedType, ConsultationCompletedType, PrescriptionCreatedType,
		MissedCallType:
		return true
	}
	return false
}

// EventType names a push event delivered over a user's live channel.
type EventType string

const (
	EventMessage      EventType = "message"
	EventCallInvite   EventType = "call_invite"
	EventCallAccepted EventType = "call_accepted"
	EventCallRejected EventType = "call_rejected"
	EventCallEnded    EventType = "call_ended"
	EventCallMissed   EventType = "call_missed"
	EventNotification EventType = "notification"
)

// NotificationEvent is the intake payload for async fan-out from external
// domain-event producers.
type NotificationEvent struct {
	UserID    string
	Type      NotificationType
	Message   string
	RelatedID *string
}
