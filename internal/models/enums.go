package models

// CaseStatus is the lifecycle state of a case report.
type CaseStatus string

const (
	StatusPending     CaseStatus = "PENDING"
	StatusInProgress  CaseStatus = "IN_PROGRESS"
	StatusClosed      CaseStatus = "CLOSED"
	StatusFalseReport CaseStatus = "FALSE_REPORT"
)

func (s CaseStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusClosed, StatusFalseReport:
		return true
	}
	return false
}

// Classification is the handling track assigned by a level-2 actor.
type Classification string

const (
	ClassificationSafeguard      Classification = "SAFEGUARD"
	ClassificationCaseManagement Classification = "CASE_MANAGEMENT"
	ClassificationFalseReport    Classification = "FALSE_REPORT"
)

func (c Classification) Valid() bool {
	switch c {
	case ClassificationSafeguard, ClassificationCaseManagement, ClassificationFalseReport:
		return true
	}
	return false
}

// UrgencyLevel keeps the original French vocabulary used by field staff.
type UrgencyLevel string

const (
	UrgencyFaible   UrgencyLevel = "FAIBLE"
	UrgencyMoyen    UrgencyLevel = "MOYEN"
	UrgencyEleve    UrgencyLevel = "ELEVE"
	UrgencyCritique UrgencyLevel = "CRITIQUE"
)

func (u UrgencyLevel) Valid() bool {
	switch u {
	case UrgencyFaible, UrgencyMoyen, UrgencyEleve, UrgencyCritique:
		return true
	}
	return false
}

// IncidentType is the closed incident category set.
type IncidentType string

const (
	IncidentSante                 IncidentType = "SANTE"
	IncidentViolencePhysique      IncidentType = "VIOLENCE_PHYSIQUE"
	IncidentViolencePsychologique IncidentType = "VIOLENCE_PSYCHOLOGIQUE"
	IncidentViolenceSexuelle      IncidentType = "VIOLENCE_SEXUELLE"
	IncidentNegligence            IncidentType = "NEGLIGENCE"
	IncidentComportement          IncidentType = "COMPORTEMENT"
	IncidentEducation             IncidentType = "EDUCATION"
	IncidentFamilial              IncidentType = "FAMILIAL"
	IncidentAutre                 IncidentType = "AUTRE"
)

func (i IncidentType) Valid() bool {
	switch i {
	case IncidentSante, IncidentViolencePhysique, IncidentViolencePsychologique,
		IncidentViolenceSexuelle, IncidentNegligence, IncidentComportement,
		IncidentEducation, IncidentFamilial, IncidentAutre:
		return true
	}
	return false
}

// EscalationStatus marks whether a case has been escalated up the hierarchy.
type EscalationStatus string

const (
	EscalationNone      EscalationStatus = "NONE"
	EscalationEscalated EscalationStatus = "ESCALATED"
)

func (s EscalationStatus) Valid() bool {
	return s == EscalationNone || s == EscalationEscalated
}

// EscalationTarget is who an escalated case was raised to.
type EscalationTarget string

const (
	EscalatedToUnitDirector   EscalationTarget = "UNIT_DIRECTOR"
	EscalatedToNationalOffice EscalationTarget = "NATIONAL_OFFICE"
)

func (t EscalationTarget) Valid() bool {
	return t == EscalatedToUnitDirector || t == EscalatedToNationalOffice
}

// Role is the actor's level in the handling hierarchy.
// LEVEL1 reports, LEVEL2 handles, LEVEL3 directs, LEVEL4 administers.
type Role string

const (
	RoleLevel1 Role = "LEVEL1"
	RoleLevel2 Role = "LEVEL2"
	RoleLevel3 Role = "LEVEL3"
	RoleLevel4 Role = "LEVEL4"
)

var roleRank = map[Role]int{
	RoleLevel1: 1,
	RoleLevel2: 2,
	RoleLevel3: 3,
	RoleLevel4: 4,
}

// Rank returns the ordinal position of the role, 0 for unknown roles.
func (r Role) Rank() int { return roleRank[r] }

func (r Role) Valid() bool { return roleRank[r] != 0 }

// AtLeast reports whether r is at or above min in the hierarchy.
// Unknown roles never satisfy any floor.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r.Rank() >= min.Rank()
}

// RoleDetail refines a role level, e.g. a LEVEL3 actor at the national
// office rather than a unit director.
type RoleDetail string

const (
	DetailNationalOffice RoleDetail = "NATIONAL_OFFICE"
	DetailUnitDirector   RoleDetail = "UNIT_DIRECTOR"
)
