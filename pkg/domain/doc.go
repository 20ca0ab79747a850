package domain

// domain package contains the Domain Models of RuleStudio.
//
// `domain/project` has the Project entity and the in-memory container of
// projects. A project owns an information table and results calculated on
// it: rules, classification and cross-validation.
//
// `domain/errors` has sentinel errors shared by the domain packages.
// Handlers translate them into HTTP status codes.
//
// Calculations themselves are not here. They are in `pkg/rules`,
// `pkg/classification` and `pkg/crossvalidation`, delegating the hard work to
// the rule-learning engine (`pkg/rulelearn`).
