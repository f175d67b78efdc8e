package core

// Represents persisted column of any entity.
// Must not be used directly, instead create new type definition
// based on this type for each entity and use it.
//
// Columns are interpolated into generated queries, values never are.
// So all data of types that defined based on this type must be predefined consts.
type EntityProperty string
