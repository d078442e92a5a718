package model

import "time"

// Quality test statuses.  A test starts PENDING and becomes COMPLETED
// when a certified tester records its results.
const (
	TestPending   = "PENDING"
	TestCompleted = "COMPLETED"
)

// QualityTest is a request to verify a specific batch of cheese.
//
// Fields:
//  ID              – primary key identifier.
//  ProducerID      – producer of the batch.
//  CheeseVarietyID – variety of the batch.
//  BatchIdentifier – batch label the test refers to.
//  TestType        – e.g. "Full Sensory Analysis".
//  Status          – PENDING or COMPLETED.
//  RequestedBy     – user who opened the test.
//  CreatedAt       – registration timestamp.
//  UpdatedAt       – last update timestamp.
type QualityTest struct {
	ID              uint64    // quality_tests.id
	ProducerID      uint64    // quality_tests.producer_id
	CheeseVarietyID uint64    // quality_tests.cheese_variety_id
	BatchIdentifier string    // quality_tests.batch_identifier
	TestType        string    // quality_tests.test_type
	Status          string    // quality_tests.status
	RequestedBy     uint64    // quality_tests.requested_by
	CreatedAt       time.Time // quality_tests.created_at
	UpdatedAt       time.Time // quality_tests.updated_at
}

// TestResult holds the outcome of a quality test.  One result per
// test; recording it marks the test COMPLETED.
//
// Fields:
//  ID            – primary key identifier.
//  TestID        – quality test this result answers.
//  SafetyPassed  – whether the batch passed food-safety checks.
//  FlavorProfile – sensory notes on flavor.
//  TextureNotes  – sensory notes on texture.
//  AromaNotes    – sensory notes on aroma.
//  OverallScore  – aggregate score from 0 to 100.
//  DetailedNotes – long-form notes.
//  VerifiedBy    – user ID of the certified tester.
//  CreatedAt     – verification timestamp.
type TestResult struct {
	ID            uint64    // test_results.id
	TestID        uint64    // test_results.test_id
	SafetyPassed  bool      // test_results.safety_passed
	FlavorProfile string    // test_results.flavor_profile
	TextureNotes  string    // test_results.texture_notes
	AromaNotes    string    // test_results.aroma_notes
	OverallScore  uint8     // test_results.overall_score
	DetailedNotes string    // test_results.detailed_notes
	VerifiedBy    uint64    // test_results.verified_by
	CreatedAt     time.Time // test_results.created_at
}

// CertifiedTester links a user account to a tester profile.  Only a
// certified, active tester may record test results.  Certification
// and active status are toggled by the registering authority.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – user account operating as this tester.
//  Name            – tester's name.
//  Organization    – certifying organization.
//  YearsExperience – years of professional experience (≥ 0).
//  Certified       – certification flag.
//  Active          – whether the tester is currently active.
//  RegisteredBy    – user who registered the tester.
//  CreatedAt       – registration timestamp.
//  UpdatedAt       – last update timestamp.
type CertifiedTester struct {
	ID              uint64    // certified_testers.id
	UserID          uint64    // certified_testers.user_id
	Name            string    // certified_testers.name
	Organization    string    // certified_testers.organization
	YearsExperience uint8     // certified_testers.years_experience
	Certified       bool      // certified_testers.certified
	Active          bool      // certified_testers.active
	RegisteredBy    uint64    // certified_testers.registered_by
	CreatedAt       time.Time // certified_testers.created_at
	UpdatedAt       time.Time // certified_testers.updated_at
}
