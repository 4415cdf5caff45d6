// SPDX-License-Identifier: MPL-2.0

package diag

// Code is a stable machine-readable diagnostic identifier.
type Code string

// Structural codes.
const (
	CodeUnknownComponent      Code = "unknown_component"
	CodeComponentNotInterface Code = "component_not_interface"
	CodeModuleNotAnnotated    Code = "module_not_annotated"
	CodeUnknownModule         Code = "unknown_module"
	CodeBuilderMissingSetter  Code = "builder_missing_setter"
	CodeBuilderUnknownModule  Code = "builder_unknown_module"
)

// Resolution codes.
const (
	CodeMissingBinding   Code = "missing_binding"
	CodeDuplicateBinding Code = "duplicate_binding"
)

// Policy codes.
const (
	CodeDependsOnProductionExecutor Code = "depends_on_production_executor"
	CodeNullableMismatch            Code = "nullable_mismatch"
	CodeDependencyCycle             Code = "dependency_cycle"
	CodeScopeMismatch               Code = "scope_mismatch"
	CodeScopedProducer              Code = "scoped_producer"
	CodeProducerInProvision         Code = "producer_in_provision_component"
	CodeProviderDependsOnProducer   Code = "provider_depends_on_producer"
	CodeUnsupportedRequest          Code = "unsupported_request"
	CodeEntryPointNotDeferred       Code = "entry_point_not_deferred"
	CodeProducerMultibinding        Code = "producer_multibinding"
	CodeSetValuesNotSlice           Code = "set_values_not_slice"
	CodeMapKeyMissing               Code = "map_key_missing"
	CodeDuplicateMapKey             Code = "duplicate_map_key"
)

// Advisory codes.
const (
	CodeNullableProducer Code = "nullable_producer"
)

var classes = map[Code]Class{
	CodeUnknownComponent:      ClassStructural,
	CodeComponentNotInterface: ClassStructural,
	CodeModuleNotAnnotated:    ClassStructural,
	CodeUnknownModule:         ClassStructural,
	CodeBuilderMissingSetter:  ClassStructural,
	CodeBuilderUnknownModule:  ClassStructural,

	CodeMissingBinding:   ClassResolution,
	CodeDuplicateBinding: ClassResolution,

	CodeDependsOnProductionExecutor: ClassPolicy,
	CodeNullableMismatch:            ClassPolicy,
	CodeDependencyCycle:             ClassPolicy,
	CodeScopeMismatch:               ClassPolicy,
	CodeScopedProducer:              ClassPolicy,
	CodeProducerInProvision:         ClassPolicy,
	CodeProviderDependsOnProducer:   ClassPolicy,
	CodeUnsupportedRequest:          ClassPolicy,
	CodeEntryPointNotDeferred:       ClassPolicy,
	CodeProducerMultibinding:        ClassPolicy,
	CodeSetValuesNotSlice:           ClassPolicy,
	CodeMapKeyMissing:               ClassPolicy,
	CodeDuplicateMapKey:             ClassPolicy,

	CodeNullableProducer: ClassAdvisory,
}

// Class returns the class the code belongs to. Unknown codes are policy problems.
func (c Code) Class() Class {
	if cl, ok := classes[c]; ok {
		return cl
	}
	return ClassPolicy
}

// Codes returns every known code, structural codes first.
func Codes() []Code {
	return []Code{
		CodeUnknownComponent, CodeComponentNotInterface, CodeModuleNotAnnotated, CodeUnknownModule,
		CodeBuilderMissingSetter, CodeBuilderUnknownModule,
		CodeMissingBinding, CodeDuplicateBinding,
		CodeDependsOnProductionExecutor, CodeNullableMismatch, CodeDependencyCycle, CodeScopeMismatch,
		CodeScopedProducer, CodeProducerInProvision, CodeProviderDependsOnProducer, CodeUnsupportedRequest,
		CodeEntryPointNotDeferred,
		CodeProducerMultibinding, CodeSetValuesNotSlice, CodeMapKeyMissing, CodeDuplicateMapKey,
		CodeNullableProducer,
	}
}
