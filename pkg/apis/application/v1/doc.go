// Package v1 contains API Schema definitions for the per.naess v1 API group.
//
// # API Group: per.naess/v1
//
// ## Application
//
// Application describes a logical application backed by a Deployment. When
// spec.deploy is true the controller keeps a Deployment named spec.name with
// two replicas of spec.image in the Application's namespace, and removes it
// again when spec.deploy turns false or the Application is deleted.
//
// Example:
//
//	apiVersion: per.naess/v1
//	kind: Application
//	metadata:
//	  name: web
//	  namespace: default
//	spec:
//	  name: web
//	  image: nginx:1.27
//	  deploy: true
//
// +kubebuilder:object:generate=true
// +groupName=per.naess
package v1
